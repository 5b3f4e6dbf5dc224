// Package apperr defines the error taxonomy shared by every service.
//
// Core logic returns *Error values; the HTTP layer maps each Kind to a
// status code. Errors wrap their cause so callers can still use errors.Is
// against sentinel errors from lower layers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary mapping.
type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindNotFound              Kind = "not_found"
	KindUnauthenticated       Kind = "unauthenticated"
	KindUnauthorized          Kind = "unauthorized"
	KindConflict              Kind = "conflict"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindPaymentDeclined       Kind = "payment_declined"
	KindInternal              Kind = "internal_error"
)

// Error is the structured error carried across layer boundaries.
type Error struct {
	Kind Kind
	Msg  string
	// Fields lists the offending input fields for validation errors.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Validation builds a validation error listing the offending fields.
func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// KindOf extracts the Kind from an error chain.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
