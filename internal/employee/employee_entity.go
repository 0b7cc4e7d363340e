package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee stores name, surname and role encrypted at rest (see fieldcrypt).
type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"uniqueIndex"`
	Name             string
	Surname          string
	Role             string
	CurrentEmployee  bool
	EmailVerified    bool
	VacationDaysLeft int
	SupervisorID     *uuid.UUID `gorm:"column:id_supervisor;type:uuid"`
	HRID             *uuid.UUID `gorm:"column:id_hr;type:uuid"`
	Supervisor       *Employee  `gorm:"foreignKey:SupervisorID"`
	HR               *Employee  `gorm:"foreignKey:HRID"`
	CreatedAt        time.Time
	ModifiedAt       time.Time
}

// Eligible reports whether the employee may take part in a leave request
// as substitute, supervisor or HR.
func (e *Employee) Eligible() bool {
	return e != nil && e.CurrentEmployee && e.EmailVerified
}
