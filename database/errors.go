package database

import "fmt"

// The store surfaces exactly three error kinds to callers. Anything else
// is an operational failure from the storage boundary, wrapped with %w.

// ValidationError reports malformed or out-of-range input, naming the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced id or name that does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func newNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ConflictError is reserved for uniqueness violations surfaced by the
// storage boundary. No happy path in this store produces one.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
