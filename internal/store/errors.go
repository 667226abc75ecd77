package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("memory not found")
)

// ValidationError reports a structurally invalid mutation payload.
// The store's state is never touched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports an id that is absent from the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
