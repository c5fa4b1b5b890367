// Package apperr defines the typed error taxonomy shared by the counting tools.
// Callers branch on the Kind with errors.Is against the sentinel values.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the caller can act on.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindInvalidPhase    Kind = "invalid_phase"
	KindConflict        Kind = "conflict"
	KindValidation      Kind = "validation"
	KindNoActiveSession Kind = "no_active_session"
)

// Sentinels for errors.Is matching.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrInvalidPhase    = &Error{Kind: KindInvalidPhase}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNoActiveSession = &Error{Kind: KindNoActiveSession}
)

// Error is a classified, caller-facing error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on Kind only, so any classified error matches its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func InvalidPhase(format string, args ...any) *Error {
	return New(KindInvalidPhase, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func NoActiveSession(format string, args ...any) *Error {
	return New(KindNoActiveSession, format, args...)
}

// KindOf returns the Kind of err, or "" if err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
