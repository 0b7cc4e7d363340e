package leave

import (
	"encoding/json"
	"slices"

	"go-selfservice/internal/employee"
	"go-selfservice/internal/shared/optional"
)

type CreateLeaveRequest struct {
	SubstituteEmail  string    `json:"substituteEmail" binding:"required,email"`
	StartDate        string    `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate          string    `json:"endDate" binding:"required,datetime=2006-01-02"`
	WorkDays         int       `json:"workDays" binding:"required,min=1"`
	LeaveType        LeaveType `json:"leaveType" binding:"required,oneof=VACATION EVENT_FAM CHILD NO_PAY OTHER"`
	LeaveTypeDetails *string   `json:"leaveTypeDetails" binding:"omitempty,min=2,max=30"`
}

// UpdateLeaveRequest is a PATCH body. A key that is present counts as
// changed even when its value is null.
type UpdateLeaveRequest struct {
	StartDate        optional.Value[string]    `json:"startDate"`
	EndDate          optional.Value[string]    `json:"endDate"`
	WorkDays         optional.Value[int]       `json:"workDays"`
	LeaveType        optional.Value[LeaveType] `json:"leaveType"`
	LeaveTypeDetails optional.Value[string]    `json:"leaveTypeDetails"`
	Status           optional.Value[Status]    `json:"status"`
	RejectReason     optional.Value[string]    `json:"rejectReason"`

	// Unknown holds supplied keys that are not updatable fields, sorted.
	Unknown []string `json:"-"`
}

var updatableFields = map[string]bool{
	string(FieldStartDate): true, string(FieldEndDate): true, string(FieldWorkDays): true,
	string(FieldLeaveType): true, string(FieldLeaveTypeDetails): true,
	string(FieldStatus): true, string(FieldRejectReason): true,
}

func (r *UpdateLeaveRequest) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	type plain UpdateLeaveRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	p.Unknown = nil
	for k := range keys {
		if !updatableFields[k] {
			p.Unknown = append(p.Unknown, k)
		}
	}
	slices.Sort(p.Unknown)

	*r = UpdateLeaveRequest(p)
	return nil
}

// ChangedFields lists the supplied keys in a stable order, unknown keys
// last.
func (r UpdateLeaveRequest) ChangedFields() []Field {
	var fields []Field
	add := func(set bool, f Field) {
		if set {
			fields = append(fields, f)
		}
	}
	add(r.StartDate.Set, FieldStartDate)
	add(r.EndDate.Set, FieldEndDate)
	add(r.WorkDays.Set, FieldWorkDays)
	add(r.LeaveType.Set, FieldLeaveType)
	add(r.LeaveTypeDetails.Set, FieldLeaveTypeDetails)
	add(r.Status.Set, FieldStatus)
	add(r.RejectReason.Set, FieldRejectReason)
	for _, k := range r.Unknown {
		fields = append(fields, Field(k))
	}
	return fields
}

// ListQuery filters both leave-request lists. Pagination applies only when
// both PageNumber and PageSize are given.
type ListQuery struct {
	Statuses   []Status
	PageNumber *int
	PageSize   *int
}

func (q ListQuery) Paginated() bool {
	return q.PageNumber != nil && q.PageSize != nil && *q.PageSize > 0
}

type LeaveRequestResponse struct {
	ID               string  `json:"id"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	WorkDays         int     `json:"workDays"`
	LeaveType        string  `json:"leaveType"`
	LeaveTypeDetails *string `json:"leaveTypeDetails,omitempty"`
	Status           string  `json:"status"`
	RejectReason     *string `json:"rejectReason,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	ModifiedAt       string  `json:"modifiedAt"`

	Relationships Relationships `json:"relationships"`
}

// Relationships references employees by id; their summaries travel in
// the "included" list.
type Relationships struct {
	Initiator  string  `json:"initiator"`
	Substitute string  `json:"substitute"`
	Supervisor *string `json:"supervisor,omitempty"`
	HR         *string `json:"hr,omitempty"`
}

type ListResult struct {
	Items    []LeaveRequestResponse
	Included []employee.IncludedEmployee
	Total    int64
}

type CreateLeaveResponse struct {
	ID string `json:"id"`
	// VacationDaysLeft is present only when the balance changed.
	VacationDaysLeft *int `json:"vacationDaysLeft,omitempty"`
}

type UpdateLeaveResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	VacationDaysLeft *int   `json:"vacationDaysLeft,omitempty"`
}

type SignatureResponse struct {
	ID             string `json:"id"`
	Owner          string `json:"owner"`
	LeaveRequestID string `json:"leaveRequestId"`
	Status         string `json:"status"`
}
