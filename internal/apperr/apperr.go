// Package apperr defines the error taxonomy shared by the ledger, the
// recorder and the transports that render errors to clients.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input rejected before business logic runs.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a group, expense or user that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariant marks a programming error such as a self-referencing balance.
	ErrInvariant = errors.New("invariant violation")

	// ErrUnauthenticated marks a request without a valid caller identity.
	ErrUnauthenticated = errors.New("authentication required")
)

// kindError carries a client-facing message while matching a sentinel via errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation returns an ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound naming the missing entity,
// e.g. "Group with ID 42 not found".
func NotFound(entity string, id any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf("%s with ID %v not found", entity, id)}
}

// Invariant returns an ErrInvariant with a formatted message.
func Invariant(format string, args ...any) error {
	return &kindError{kind: ErrInvariant, msg: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
