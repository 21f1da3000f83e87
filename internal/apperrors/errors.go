package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a referenced order, product or review does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError indicates malformed or missing input, rejected before any
// state is persisted.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnauthorizedError indicates a missing or insufficient principal for an
// admin-gated or ownership-gated operation.
type UnauthorizedError struct {
	Message string `json:"message"`
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// ConflictError indicates that the operation would duplicate existing state,
// such as a second review by the same user for the same product.
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// PreconditionError indicates that the order is not in a state that permits
// the transition, such as marking an unpaid order delivered.
type PreconditionError struct {
	Message string `json:"message"`
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// NewPreconditionError creates a precondition error.
func NewPreconditionError(message string) *PreconditionError {
	return &PreconditionError{Message: message}
}

// ExternalError wraps a failure from a third-party collaborator such as the
// payment provider or the notification service.
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// NewExternalError wraps an upstream failure with the collaborator's name.
func NewExternalError(service string, err error) *ExternalError {
	return &ExternalError{Service: service, Err: err}
}
