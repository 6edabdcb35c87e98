// Package apperror defines the error taxonomy shared by the stores, services
// and HTTP handlers. Callers match on the sentinels with errors.Is and read the
// human-readable message from *AppError.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
)

type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable message, safe to return to clients
	Field   string // optional: field causing the error
	Cause   error  // optional: underlying error, logged but never returned
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func NotFound(resource, id string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Field: id}
}

// Storage wraps an infrastructure failure. The cause stays out of Message so
// handlers can surface the error without leaking driver detail.
func Storage(op string, cause error) *AppError {
	return &AppError{Err: ErrStorage, Message: op + " failed", Cause: cause}
}

// Message returns the client-safe message of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// FieldOf returns the offending field recorded on a validation error.
func FieldOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Field
	}
	return ""
}
