package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodePersistenceError   = "PERSISTENCE_ERROR"
	CodeNotificationError  = "NOTIFICATION_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Kind is the closed set of error categories. Transport status is derived
// from Kind only, see ToHTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindPersistence
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence_failure"
	case KindNotification:
		return "notification_failure"
	default:
		return "internal"
	}
}
