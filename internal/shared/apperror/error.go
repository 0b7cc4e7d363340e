package apperror

import (
	"errors"
	"fmt"
)

// Source points at the part of the request that caused the error.
// Exactly one of Pointer (body) or Parameter (path/query) is set.
type Source struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

type AppError struct {
	Kind    Kind    // Error category, drives HTTP status
	Code    string  // Error code (e.g., INVALID_INPUT)
	Message string  // User-friendly message
	Detail  string  // Optional longer explanation for clients
	Source  *Source // Optional request location
	Err     error   // Wrapped cause (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches copies produced by WithDetail/WithSource/WithErr against the
// sentinel they were derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError without wrapping
func New(kind Kind, code, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, kind Kind, code, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail returns a copy of e carrying detail.
func (e *AppError) WithDetail(detail string) *AppError {
	c := *e
	c.Detail = detail
	return &c
}

// WithPointer returns a copy of e whose source points into the request body.
func (e *AppError) WithPointer(pointer string) *AppError {
	c := *e
	c.Source = &Source{Pointer: pointer}
	return &c
}

// WithParameter returns a copy of e whose source names a path or query parameter.
func (e *AppError) WithParameter(parameter string) *AppError {
	c := *e
	c.Source = &Source{Parameter: parameter}
	return &c
}

// WithErr returns a copy of e wrapping err.
func (e *AppError) WithErr(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Persistence wraps an unexpected repository failure. AppErrors pass through.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return ErrPersistence.WithErr(err)
}
