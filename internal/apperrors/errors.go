package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrHasDependents indicates that a resource cannot be removed while other records reference it.
var ErrHasDependents = errors.New("resource has dependents")

// ErrInvalidTransition indicates that the requested state change is not allowed
// from the resource's current state (approving a terminal entry, overpaying an invoice).
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrMissingConfiguration indicates that a posting rule references an account
// code that is not provisioned in the chart of accounts.
var ErrMissingConfiguration = errors.New("missing ledger configuration")

// ErrConcurrency indicates a serialization failure or deadlock. The caller may retry.
var ErrConcurrency = errors.New("concurrent modification, retry the request")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
