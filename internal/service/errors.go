package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound marks a missing resource
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation
	ErrConflict = errors.New("conflict")
	// ErrValidation marks invalid input
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError describes which unique value was already taken
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func conflict(message string) error {
	return &ConflictError{Message: message}
}

// FieldError is a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors found by a service
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
