package leave

import (
	"time"

	"go-selfservice/internal/employee"

	"github.com/google/uuid"
)

type LeaveType string

const (
	LeaveTypeVacation LeaveType = "VACATION"
	LeaveTypeEventFam LeaveType = "EVENT_FAM"
	LeaveTypeChild    LeaveType = "CHILD"
	LeaveTypeNoPay    LeaveType = "NO_PAY"
	LeaveTypeOther    LeaveType = "OTHER"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeVacation, LeaveTypeEventFam, LeaveTypeChild, LeaveTypeNoPay, LeaveTypeOther:
		return true
	}
	return false
}

type Status string

const (
	StatusAwaitingInitiator  Status = "AWAITING_INITIATOR"
	StatusAwaitingSubstitute Status = "AWAITING_SUBSTITUTE"
	StatusAwaitingSupervisor Status = "AWAITING_SUPERVISOR"
	StatusAwaitingHR         Status = "AWAITING_HR"
	StatusApproved           Status = "APPROVED"
	StatusDenied             Status = "DENIED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingInitiator, StatusAwaitingSubstitute, StatusAwaitingSupervisor,
		StatusAwaitingHR, StatusApproved, StatusDenied:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

type SignatureOwner string

const (
	SignatureOwnerInitiator  SignatureOwner = "INITIATOR"
	SignatureOwnerSubstitute SignatureOwner = "SUBSTITUTE"
	SignatureOwnerSupervisor SignatureOwner = "SUPERVISOR"
)

type LeaveRequest struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	InitiatorID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SubstituteID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate        time.Time `gorm:"type:date;not null"`
	EndDate          time.Time `gorm:"type:date;not null"`
	WorkDays         int       `gorm:"not null"`
	LeaveType        LeaveType `gorm:"type:varchar(20);not null"`
	LeaveTypeDetails *string   `gorm:"type:varchar(30)"`
	Status           Status    `gorm:"type:varchar(30);not null;index"`
	RejectReason     *string   `gorm:"type:varchar(50)"`
	CreatedAt        time.Time
	// ModifiedAt is set explicitly on every mutation.
	ModifiedAt time.Time `gorm:"index"`

	Initiator  *employee.Employee `gorm:"foreignKey:InitiatorID"`
	Substitute *employee.Employee `gorm:"foreignKey:SubstituteID"`
}

// SignatureFile is append-only. The PNG lives in signature storage under
// "<id>.png".
type SignatureFile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Owner          SignatureOwner `gorm:"type:varchar(20);not null"`
	LeaveRequestID uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time
}

func (SignatureFile) TableName() string {
	return "leave_request_signature_files"
}

// Participants are the only employees allowed to act on a request.
type Participants struct {
	InitiatorID  uuid.UUID
	SubstituteID uuid.UUID
	SupervisorID *uuid.UUID
	HRID         *uuid.UUID
}

func participantsOf(lr *LeaveRequest, initiator *employee.Employee) Participants {
	return Participants{
		InitiatorID:  lr.InitiatorID,
		SubstituteID: lr.SubstituteID,
		SupervisorID: initiator.SupervisorID,
		HRID:         initiator.HRID,
	}
}
