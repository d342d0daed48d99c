package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by repositories, services and handlers.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrNotNullViolation    = errors.New("not null constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
	ErrMalformedQuery      = errors.New("malformed query")
	ErrInconsistentState   = errors.New("inconsistent state")
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when user input fails validation before reaching the database.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// ReferenceError is returned when a request names related rows that do not exist.
type ReferenceError struct {
	Kind    string
	Missing []string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, strings.Join(e.Missing, ", "))
}
