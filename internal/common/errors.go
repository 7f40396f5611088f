// Package common defines the sentinel errors shared by the store, service and
// transport layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// store errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// service errors
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")

	// token errors, never distinguished further towards the client
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries a client-correctable message. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
