// Package errors defines the typed error taxonomy shared by every layer of the
// image generation service.
//
// Errors carry a Kind that the serving layers translate into a status code,
// an Op naming the step that failed, and a user-facing Message. Causes are
// preserved for errors.Is / errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the serving layer.
type Kind string

const (
	// KindInput covers malformed payloads, count mismatches, disabled
	// capabilities and provider-reported failures.
	KindInput Kind = "invalid_input"
	// KindSizeLimit is returned when a remote asset exceeds a fixed maximum.
	KindSizeLimit Kind = "size_limit"
	// KindNotFound is returned for unknown template names.
	KindNotFound Kind = "template_not_found"
	// KindTransport is a failed network fetch. It is never retried.
	KindTransport Kind = "transport"
	// KindDecode is returned when bytes are not a supported image or font.
	KindDecode Kind = "decode"
	// KindConfig marks a configuration defect.
	KindConfig Kind = "config"
	// KindInternal is an unexpected failure in the work dispatch layer.
	KindInternal Kind = "internal"
	// KindUnknown is reported for untyped errors.
	KindUnknown Kind = "unknown"
)

// Error is the typed error used across the service.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Wrap attaches kind, op and message to err. If err already carries a typed
// Error it is returned unchanged so the innermost classification wins.
func Wrap(kind Kind, op, message string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// KindOf returns the kind of the first typed error in the chain.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

// IsKind reports whether the first typed error in the chain has the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message of a typed error, or err.Error()
// for anything else.
func MessageOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}
