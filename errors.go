package chainq

import (
	"errors"
	"fmt"
)

// ErrKind categorises a data-access failure without exposing driver-specific
// codes. Driver adapters translate their native errors into one of these
// kinds, giving callers a single consistent API.
type ErrKind int

const (
	KindUnknown    ErrKind = iota
	KindConflict           // uniqueness constraint violated
	KindReference          // foreign key constraint violated
	KindNotFound           // expected exactly one row, got none
	KindValidation         // Ensure predicate over the carried value was false
	KindCanceled           // context cancellation or deadline
	KindConnection         // cannot reach or authenticate to the database
)

func (k ErrKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindReference:
		return "reference_violation"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failure"
	case KindCanceled:
		return "canceled"
	case KindConnection:
		return "connection_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by this library and its driver
// adapters. Adapters produce it with the raw driver error preserved as
// Cause; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Key     any   // lookup key(s), set on not-found errors for diagnostics
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	switch {
	case e.Key != nil && e.Cause != nil:
		return fmt.Sprintf("[%s] %s (key=%v): %v", e.Kind, e.Message, e.Key, e.Cause)
	case e.Key != nil:
		return fmt.Sprintf("[%s] %s (key=%v)", e.Kind, e.Message, e.Key)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an *Error with the given kind and message and no cause.
func NewError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError creates an *Error with the given kind, message, and an
// underlying cause.
func WrapError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// NotFoundError creates a not-found *Error carrying the lookup key.
func NotFoundError(msg string, key any) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Key: key}
}

// IsConflict reports whether err represents a uniqueness violation.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsReference reports whether err represents a foreign key violation.
func IsReference(err error) bool {
	return KindOf(err) == KindReference
}

// IsNotFound reports whether err represents a missing expected row.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err was produced by a failed Ensure step.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsCanceled reports whether err was caused by a deadline or context
// cancellation.
func IsCanceled(err error) bool {
	return KindOf(err) == KindCanceled
}

// IsConnection reports whether err is a connectivity or auth failure.
func IsConnection(err error) bool {
	return KindOf(err) == KindConnection
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
