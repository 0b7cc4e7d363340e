package apperror

import (
	"errors"
	"net/http"
)

var statusByKind = map[Kind]int{
	KindInvalidInput: http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindPersistence:  http.StatusInternalServerError,
	KindNotification: http.StatusBadGateway,
	KindInternal:     http.StatusInternalServerError,
}

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ErrorDetails is attached to responses when the error carries a detail or source.
type ErrorDetails struct {
	Detail string  `json:"detail,omitempty"`
	Source *Source `json:"source,omitempty"`
}

// StatusOf returns the HTTP status for kind.
func StatusOf(kind Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ToHTTP maps any error to its HTTP representation. Wrapped causes are never
// exposed to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    ErrInternal.Code,
			Message: ErrInternal.Message,
		}
	}

	out := HTTPError{
		Status:  StatusOf(appErr.Kind),
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if appErr.Detail != "" || appErr.Source != nil {
		out.Details = ErrorDetails{Detail: appErr.Detail, Source: appErr.Source}
	}
	return out
}
