package leave

import (
	"time"
	"unicode/utf8"

	"go-selfservice/internal/employee"
	leaveerrors "go-selfservice/internal/leave/errors"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type signatureStep struct {
	signer Role
	owner  SignatureOwner
	next   Status
}

var signatureSteps = map[Status]signatureStep{
	StatusAwaitingInitiator:  {signer: RoleInitiator, owner: SignatureOwnerInitiator, next: StatusAwaitingSubstitute},
	StatusAwaitingSubstitute: {signer: RoleSubstitute, owner: SignatureOwnerSubstitute, next: StatusAwaitingSupervisor},
	StatusAwaitingSupervisor: {signer: RoleSupervisor, owner: SignatureOwnerSupervisor, next: StatusAwaitingHR},
}

// NextSignature returns the owner of the signature actor may add and the
// status it moves the request to. Each signature advances exactly one step.
func NextSignature(actor uuid.UUID, status Status, p Participants) (SignatureOwner, Status, error) {
	step, ok := signatureSteps[status]
	if !ok {
		return "", "", leaveerrors.ErrSignatureForbidden.WithDetail(
			"No more signature files can be uploaded to a leave-request with status " + string(status) + ".")
	}
	if !p.holds(actor, step.signer) {
		return "", "", leaveerrors.ErrSignatureForbidden
	}
	return step.owner, step.next, nil
}

// UpdatePlan is the set of writes an accepted update produces.
type UpdatePlan struct {
	Role Role
	// Columns holds the leave_requests columns to set, modified_at included.
	Columns map[string]any
	// VacationDaysLeft is nil when the initiator's balance must not be written.
	VacationDaysLeft *int
	// Decision is set when the update moves the request to a terminal status.
	Decision *Status
}

// PlanUpdate authorizes req by actor against the current state of lr and
// computes the resulting writes. Nothing is written here.
func PlanUpdate(
	actor uuid.UUID,
	lr *LeaveRequest,
	initiator *employee.Employee,
	req UpdateLeaveRequest,
	now time.Time,
) (UpdatePlan, error) {
	if lr.Status == StatusAwaitingInitiator {
		return UpdatePlan{}, leaveerrors.ErrLeaveRequestNotFound.WithDetail(
			"Leave-request must be signed by its initiator first.")
	}

	role, err := ResolveRole(actor, lr.Status, participantsOf(lr, initiator))
	if err != nil {
		return UpdatePlan{}, err
	}

	changed := req.ChangedFields()
	if len(changed) == 0 {
		return UpdatePlan{}, leaveerrors.ErrNothingToUpdate
	}
	if err := AuthorizeFields(role, lr.Status, changed); err != nil {
		return UpdatePlan{}, err
	}

	plan := UpdatePlan{Role: role, Columns: map[string]any{"modified_at": now}}
	if role == RoleInitiator {
		err = planContentEdit(&plan, lr, initiator, req)
	} else {
		err = planDecision(&plan, role, lr, req)
	}
	if err != nil {
		return UpdatePlan{}, err
	}
	return plan, nil
}

func planContentEdit(plan *UpdatePlan, lr *LeaveRequest, initiator *employee.Employee, req UpdateLeaveRequest) error {
	start, end := lr.StartDate, lr.EndDate

	if req.StartDate.Set {
		d, err := parseRequiredDate(req.StartDate.Ptr, FieldStartDate)
		if err != nil {
			return err
		}
		start = d
		plan.Columns["start_date"] = d
	}
	if req.EndDate.Set {
		d, err := parseRequiredDate(req.EndDate.Ptr, FieldEndDate)
		if err != nil {
			return err
		}
		end = d
		plan.Columns["end_date"] = d
	}
	if start.After(end) {
		return leaveerrors.ErrInvalidDateRange
	}

	var newDays *int
	if req.WorkDays.Set {
		if req.WorkDays.Ptr == nil {
			return nullField(FieldWorkDays)
		}
		if *req.WorkDays.Ptr < 1 {
			return leaveerrors.ErrInvalidWorkDays
		}
		newDays = req.WorkDays.Ptr
		plan.Columns["work_days"] = *newDays
	}

	var newType *LeaveType
	if req.LeaveType.Set {
		if req.LeaveType.Ptr == nil {
			return nullField(FieldLeaveType)
		}
		if !req.LeaveType.Ptr.Valid() {
			return leaveerrors.ErrInvalidLeaveType
		}
		newType = req.LeaveType.Ptr
		plan.Columns["leave_type"] = *newType
	}

	if req.LeaveTypeDetails.Set {
		if d := req.LeaveTypeDetails.Ptr; d != nil && !lengthBetween(*d, 2, 30) {
			return leaveerrors.ErrInvalidLeaveTypeDetails
		}
		plan.Columns["leave_type_details"] = req.LeaveTypeDetails.Ptr
	}

	if newType != nil || newDays != nil {
		left, changed, err := VacationDaysOnUpdate(initiator.VacationDaysLeft, lr.LeaveType, lr.WorkDays, newType, newDays)
		if err != nil {
			return err
		}
		if changed {
			plan.VacationDaysLeft = &left
		}
	}
	return nil
}

func planDecision(plan *UpdatePlan, role Role, lr *LeaveRequest, req UpdateLeaveRequest) error {
	if r := req.RejectReason.Ptr; r != nil && !lengthBetween(*r, 1, 50) {
		return leaveerrors.ErrInvalidRejectReason
	}
	if err := AuthorizeDecision(role, lr.Status, req.Status, req.RejectReason); err != nil {
		return err
	}

	if req.Status.Set {
		status := *req.Status.Ptr
		plan.Columns["status"] = status
		plan.Decision = &status
	}
	if req.RejectReason.Set {
		plan.Columns["reject_reason"] = req.RejectReason.Ptr
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func parseRequiredDate(s *string, field Field) (time.Time, error) {
	if s == nil {
		return time.Time{}, nullField(field)
	}
	d, err := parseDate(*s)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat.WithPointer("/" + string(field))
	}
	return d, nil
}

func nullField(field Field) error {
	return leaveerrors.ErrNullField.WithPointer("/" + string(field))
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
