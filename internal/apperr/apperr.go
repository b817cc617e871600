// Package apperr carries kind-tagged domain errors so the HTTP boundary can
// map every failure to a status code without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindValidation       Kind = "VALIDATION"
	KindConflict         Kind = "CONFLICT"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindUnavailable      Kind = "UNAVAILABLE"
	KindUnsupportedState Kind = "UNSUPPORTED_STATE"
	KindInternal         Kind = "INTERNAL"
)

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

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func AccessDenied(format string, args ...any) *Error {
	return New(KindAccessDenied, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return New(KindUnavailable, format, args...)
}

// UnsupportedState reports the exact message clients of the original API
// depend on.
func UnsupportedState() *Error {
	return New(KindUnsupportedState, "Unknown state: UNSUPPORTED_STATUS")
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
