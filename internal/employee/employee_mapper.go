package employee

import (
	employeeerrors "go-selfservice/internal/employee/errors"
	"go-selfservice/internal/shared/fieldcrypt"

	"github.com/google/uuid"
)

// Summarize decrypts the PII fields of e.
func Summarize(e *Employee, crypt fieldcrypt.Decrypter) (IncludedEmployee, error) {
	name, err := crypt.Decrypt(e.Name)
	if err != nil {
		return IncludedEmployee{}, employeeerrors.ErrDecryptEmployee.WithErr(err)
	}
	surname, err := crypt.Decrypt(e.Surname)
	if err != nil {
		return IncludedEmployee{}, employeeerrors.ErrDecryptEmployee.WithErr(err)
	}
	role, err := crypt.Decrypt(e.Role)
	if err != nil {
		return IncludedEmployee{}, employeeerrors.ErrDecryptEmployee.WithErr(err)
	}

	return IncludedEmployee{
		ID:      e.ID.String(),
		Name:    name,
		Surname: surname,
		Role:    role,
	}, nil
}

func mapToResponse(e *Employee, summary IncludedEmployee) EmployeeResponse {
	return EmployeeResponse{
		ID:               summary.ID,
		Email:            e.Email,
		Name:             summary.Name,
		Surname:          summary.Surname,
		Role:             summary.Role,
		VacationDaysLeft: e.VacationDaysLeft,
		SupervisorID:     uuidString(e.SupervisorID),
		HRID:             uuidString(e.HRID),
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
