package employee

import (
	"errors"

	employeeerrors "go-selfservice/internal/employee/errors"
	"go-selfservice/internal/shared/apperror"

	"gorm.io/gorm"
)

// MapRepositoryError turns gorm's not-found into ErrEmployeeNotFound and
// anything unexpected into a persistence failure.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	return apperror.Persistence(err)
}
