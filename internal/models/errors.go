package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched with errors.Is by every lookup that can miss.
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing resource and the key it was looked up by.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFoundError(resource, format string, args ...any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FieldError is a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every rule a request broke. Collaborators may
// return it and it is passed through to the caller untouched.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error and returns the collection.
func (v ValidationErrors) Add(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}

// OrNil returns nil for an empty collection so callers can `return errs.OrNil()`.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
