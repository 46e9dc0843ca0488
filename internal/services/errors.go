package services

import (
	"errors"
	"fmt"
)

// --- Service errors ---
var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("conflict")
	// ErrInvalidQuery is returned for list filters or ordering on columns that cannot be used.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoChanges is returned by Patch when the payload names no known field.
	ErrNoChanges = errors.New("no fields to update")
	// ErrInvalidCredentials is returned for a failed sign-in without saying which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NotFoundError reports that no active record of Entity has the requested id.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a write rejected by a uniqueness or reference rule.
// Message is meant for the user, e.g. "Customer code already exists".
type ConflictError struct {
	Field   string
	Message string
	cause   error
}

func (e *ConflictError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrConflict) true.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Unwrap returns the store error behind the conflict, if any.
func (e *ConflictError) Unwrap() error { return e.cause }

func conflict(field, message string, cause error) *ConflictError {
	return &ConflictError{Field: field, Message: message, cause: cause}
}

// BatchError reports the position of the failing entry of a batch operation.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string { return fmt.Sprintf("entry %d: %v", e.Index, e.Err) }

func (e *BatchError) Unwrap() error { return e.Err }
