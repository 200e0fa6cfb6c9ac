package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags every outcome the core reports to its callers.
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "UNAUTHENTICATED"
	KindAccountNotFound   ErrorKind = "ACCOUNT_NOT_FOUND"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindCapacityExceeded  ErrorKind = "FULLY_BOOKED"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindConflict          ErrorKind = "CONFLICT"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
)

// Error is the typed denial returned by the core. Two Errors match under
// errors.Is when their kinds are equal, so callers compare against the
// sentinels below.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound, Message: "account not found"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrCapacityExceeded  = &Error{Kind: KindCapacityExceeded, Message: "offering is fully booked"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation error"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an Error of the sentinel's kind with a specific message.
func Errorf(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an Error of the sentinel's kind.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

// KindOf returns the kind of the first Error in err's chain, or "" when err
// carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
