package leave

import (
	"time"

	"go-selfservice/internal/employee"
	"go-selfservice/internal/shared/fieldcrypt"

	"github.com/google/uuid"
)

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:               lr.ID.String(),
		StartDate:        lr.StartDate.Format(dateLayout),
		EndDate:          lr.EndDate.Format(dateLayout),
		WorkDays:         lr.WorkDays,
		LeaveType:        string(lr.LeaveType),
		LeaveTypeDetails: lr.LeaveTypeDetails,
		Status:           string(lr.Status),
		RejectReason:     lr.RejectReason,
		CreatedAt:        lr.CreatedAt.Format(time.RFC3339),
		ModifiedAt:       lr.ModifiedAt.Format(time.RFC3339),
		Relationships: Relationships{
			Initiator:  lr.InitiatorID.String(),
			Substitute: lr.SubstituteID.String(),
		},
	}
	if lr.Initiator != nil {
		resp.Relationships.Supervisor = uuidString(lr.Initiator.SupervisorID)
		resp.Relationships.HR = uuidString(lr.Initiator.HRID)
	}
	return resp
}

func mapToListResponse(items []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(items))
	for _, lr := range items {
		out = append(out, mapToResponse(lr))
	}
	return out
}

// includedEmployees decrypts the employees referenced by items, each once,
// in first-seen order.
func includedEmployees(items []LeaveRequest, scope ListScope, crypt fieldcrypt.Decrypter) ([]employee.IncludedEmployee, error) {
	seen := make(map[uuid.UUID]bool)
	included := make([]employee.IncludedEmployee, 0)

	add := func(e *employee.Employee) error {
		if e == nil || seen[e.ID] {
			return nil
		}
		seen[e.ID] = true
		summary, err := employee.Summarize(e, crypt)
		if err != nil {
			return err
		}
		included = append(included, summary)
		return nil
	}

	for _, lr := range items {
		if scope == ScopeApproval {
			if err := add(lr.Initiator); err != nil {
				return nil, err
			}
		}
		if err := add(lr.Substitute); err != nil {
			return nil, err
		}
	}
	return included, nil
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
