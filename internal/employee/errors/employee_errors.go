package employeeerrors

import (
	"go-selfservice/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"Employee not found",
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.KindInvalidInput,
		apperror.CodeInvalidInput,
		"Invalid employee ID",
	)
	ErrDecryptEmployee = apperror.New(
		apperror.KindInternal,
		apperror.CodeInternalError,
		"Employee data could not be decrypted",
	)
)
