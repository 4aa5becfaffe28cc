// Package errs provides the error type shared by the dictseed packages.
//
// Driver-level failures (pgx, mysql, sqlite3) and boundary validation
// failures are wrapped into *errs.Error so callers can branch on the kind
// without importing driver packages:
//
//	if errs.IsInvalidInput(err) {
//	    // bad data dictionary
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing driver-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // missing table, file or row
	ErrKindConnectionFailed         // cannot reach or authenticate to the destination
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // statement execution error
	ErrKindInvalidInput             // bad schema metadata or arguments
	ErrKindPermissionDenied         // insufficient privilege
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across dictseed.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error

	// Statement is the 1-based position of the failing statement in a
	// batch, or 0 when the error is not tied to one.
	Statement int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AtStatement records the batch position e occurred at and returns e.
func (e *Error) AtStatement(n int) *Error {
	if e != nil {
		e.Statement = n
	}
	return e
}

// New creates an *Error with no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error carrying an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// StatementOf returns the batch position recorded on the first *Error in
// the chain that has one, or 0.
func StatementOf(err error) int {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return 0
		}
		if e.Statement > 0 {
			return e.Statement
		}
		err = e.Cause
	}
	return 0
}

// KindOf extracts the ErrKind of the first *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
