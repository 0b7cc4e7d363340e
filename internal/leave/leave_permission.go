package leave

import (
	"strings"

	leaveerrors "go-selfservice/internal/leave/errors"
	"go-selfservice/internal/shared/optional"

	"github.com/google/uuid"
)

type Role string

const (
	RoleInitiator  Role = "INITIATOR"
	RoleSubstitute Role = "SUBSTITUTE"
	RoleSupervisor Role = "SUPERVISOR"
	RoleHR         Role = "HR"
)

// rolePrecedence decides which role acts when one employee holds several.
var rolePrecedence = []Role{RoleInitiator, RoleHR, RoleSupervisor, RoleSubstitute}

var rolesByStatus = map[Status]map[Role]bool{
	StatusAwaitingSubstitute: {RoleInitiator: true, RoleSubstitute: true, RoleSupervisor: true, RoleHR: true},
	StatusAwaitingSupervisor: {RoleSupervisor: true, RoleHR: true},
	StatusAwaitingHR:         {RoleHR: true},
}

// Field names as they appear in update payloads.
type Field string

const (
	FieldStartDate        Field = "startDate"
	FieldEndDate          Field = "endDate"
	FieldWorkDays         Field = "workDays"
	FieldLeaveType        Field = "leaveType"
	FieldLeaveTypeDetails Field = "leaveTypeDetails"
	FieldStatus           Field = "status"
	FieldRejectReason     Field = "rejectReason"
)

var (
	initiatorFields = map[Field]bool{
		FieldStartDate: true, FieldEndDate: true, FieldWorkDays: true,
		FieldLeaveType: true, FieldLeaveTypeDetails: true,
	}
	reviewerFields = map[Field]bool{
		FieldStatus: true, FieldRejectReason: true,
	}
)

func (p Participants) holds(actor uuid.UUID, role Role) bool {
	switch role {
	case RoleInitiator:
		return p.InitiatorID == actor
	case RoleSubstitute:
		return p.SubstituteID == actor
	case RoleSupervisor:
		return p.SupervisorID != nil && *p.SupervisorID == actor
	case RoleHR:
		return p.HRID != nil && *p.HRID == actor
	}
	return false
}

// ResolveRole returns the role actor acts in on a request in status.
// Terminal requests, and statuses moved only by signatures, accept no one.
func ResolveRole(actor uuid.UUID, status Status, p Participants) (Role, error) {
	allowed := rolesByStatus[status]
	for _, role := range rolePrecedence {
		if allowed[role] && p.holds(actor, role) {
			return role, nil
		}
	}

	if status.Terminal() {
		return "", leaveerrors.ErrUpdateForbidden.WithDetail(
			"Leave-request with status APPROVED OR DENIED cannot be updated anymore.")
	}
	return "", leaveerrors.ErrUpdateForbidden.WithDetail(
		"Leave-request with status " + string(status) + " cannot be updated by this employee.")
}

// AuthorizeFields checks that role may set every field in changed while the
// request is in status.
func AuthorizeFields(role Role, status Status, changed []Field) error {
	allowed := reviewerFields
	if role == RoleInitiator {
		if status != StatusAwaitingSubstitute {
			return leaveerrors.ErrUpdateForbidden.WithDetail(
				"Initiator can only update a leave-request with status AWAITING_SUBSTITUTE.")
		}
		allowed = initiatorFields
	}

	var invalid []string
	for _, f := range changed {
		if !allowed[f] {
			invalid = append(invalid, string(f))
		}
	}
	if len(invalid) > 0 {
		return leaveerrors.ErrFieldsForbidden.WithDetail(
			"Missing permissions to update " + strings.Join(invalid, ", "))
	}
	return nil
}

// AuthorizeDecision validates a reviewer's status/rejectReason pair.
// Intermediate statuses are reached through signatures only.
func AuthorizeDecision(role Role, current Status, status optional.Value[Status], rejectReason optional.Value[string]) error {
	denied := false
	if status.Set {
		if status.Ptr == nil {
			return leaveerrors.ErrInvalidStatusValue
		}
		switch *status.Ptr {
		case StatusApproved:
			if role != RoleHR || current != StatusAwaitingHR {
				return leaveerrors.ErrApproveForbidden
			}
		case StatusDenied:
			denied = true
		default:
			return leaveerrors.ErrInvalidStatusValue
		}
	}

	hasReason := rejectReason.Set && rejectReason.Ptr != nil && *rejectReason.Ptr != ""
	if denied != hasReason {
		return leaveerrors.ErrRejectReasonMismatch
	}
	return nil
}
