package apperror

var (
	ErrNotFound = New(
		KindNotFound,
		CodeNotFound,
		"Resource not found",
	)

	ErrForbidden = New(
		KindForbidden,
		CodeForbidden,
		"You do not have permission to access this resource",
	)

	ErrInternal = New(
		KindInternal,
		CodeInternalError,
		"An unexpected error occurred",
	)

	ErrUnauthorized = New(
		KindUnauthorized,
		CodeUnauthorized,
		"Authentication is required",
	)

	ErrInvalidInput = New(
		KindInvalidInput,
		CodeInvalidInput,
		"The provided input is invalid",
	)

	ErrPersistence = New(
		KindPersistence,
		CodePersistenceError,
		"Underlying database issues",
	)

	ErrNotification = New(
		KindNotification,
		CodeNotificationError,
		"Notification could not be delivered",
	)
)

func RequiredField(field string) *AppError {
	return New(KindInvalidInput, CodeInvalidInput, field+" is required")
}

func InvalidField(field string) *AppError {
	return New(KindInvalidInput, CodeInvalidInput, field+" is invalid")
}
