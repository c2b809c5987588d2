package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the repository, service and handler layers.
var (
	ErrInvalidInput                   = errors.New("invalid input")
	ErrUnknownOrUnavailableIngredient = errors.New("unknown or unavailable ingredient")
	ErrNotAuthorizedSupplier          = errors.New("not an authorized supplier")
	ErrNotFound                       = errors.New("not found")
	ErrNotYetApproved                 = errors.New("product not yet approved")

	// ErrProductFinalized is returned to an eligible supplier that never voted
	// once another supplier already finalized the product. It matches
	// ErrNotAuthorizedSupplier under errors.Is.
	ErrProductFinalized = fmt.Errorf("%w: product already finalized", ErrNotAuthorizedSupplier)

	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrReadOnly      = errors.New("write attempted in read-only view")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid input: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("invalid input: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add records a field error. It returns e so calls can be chained.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns nil when no field error was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}
