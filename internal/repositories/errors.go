package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no active record matches the requested id.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected store errors.
	// It wraps the driver error so the real cause can be logged.
	ErrDatabaseError = errors.New("database error")

	// ErrConstraintViolation is the parent of every store-level constraint rejection.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrInvalidReference is returned when a write references a row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")

	// ErrUnknownColumn is returned when a filter, order or update names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// ConstraintKind tells unique and foreign key violations apart.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// ConstraintError describes which constraint rejected a write.
type ConstraintError struct {
	Kind       ConstraintKind
	Table      string
	Column     string
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s constraint %q violated on %s", e.Kind, e.Constraint, e.Table)
	if e.Column != "" {
		msg += "." + e.Column
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *ConstraintError) Unwrap() []error {
	if e.Kind == ConstraintForeignKey {
		return []error{ErrInvalidReference, ErrConstraintViolation}
	}
	return []error{ErrDuplicateKey, ErrConstraintViolation}
}
