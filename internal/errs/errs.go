// Package errs defines the error kinds surfaced by the tracker, planner
// and store layers: validation failures (a precondition was violated),
// not-found failures (a referenced entity does not exist) and persistence
// failures (the underlying store operation failed).
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error condition
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
)

// Error is an error with a kind and an optional wrapped cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf creates a validation error
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Persist wraps a store failure as a persistence error
func Persist(err error, format string, args ...any) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool { return Is(err, KindValidation) }

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool { return Is(err, KindNotFound) }

// IsPersistence reports whether err is a persistence failure
func IsPersistence(err error) bool { return Is(err, KindPersistence) }
