package booths

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup or listing has no rows.
var ErrNotFound = errors.New("not found")

// NotFoundError carries the message shown to API clients for an empty result.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(msg string) error { return &NotFoundError{Message: msg} }

// ValidationError reports a create or update payload that does not fit the booth shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
