package leave

import (
	leaveerrors "go-selfservice/internal/leave/errors"
)

// DeductionApplies reports whether t is charged against vacation days.
func DeductionApplies(t LeaveType) bool {
	return t == LeaveTypeVacation || t == LeaveTypeOther
}

// VacationDaysOnCreate returns the initiator's balance after opening a
// request. changed is false when the leave type is not charged, in which
// case the balance must not be written back.
func VacationDaysOnCreate(current int, leaveType LeaveType, workDays int) (left int, changed bool, err error) {
	if !DeductionApplies(leaveType) {
		return current, false, nil
	}
	return checkBalance(current - workDays)
}

// VacationDaysOnUpdate returns the balance after an initiator edit. newType
// and newDays are nil when the edit does not touch them.
func VacationDaysOnUpdate(
	current int,
	prevType LeaveType,
	prevDays int,
	newType *LeaveType,
	newDays *int,
) (left int, changed bool, err error) {
	nextType := prevType
	if newType != nil {
		nextType = *newType
	}

	before, after := DeductionApplies(prevType), DeductionApplies(nextType)
	switch {
	case before && after:
		if newDays == nil || *newDays == prevDays {
			return current, false, nil
		}
		return checkBalance(current - (*newDays - prevDays))
	case before && !after:
		return checkBalance(current + prevDays)
	case !before && after:
		days := prevDays
		if newDays != nil {
			days = *newDays
		}
		return checkBalance(current - days)
	default:
		return current, false, nil
	}
}

func checkBalance(left int) (int, bool, error) {
	if left < 0 {
		return 0, false, leaveerrors.ErrInsufficientVacationDays
	}
	return left, true, nil
}
