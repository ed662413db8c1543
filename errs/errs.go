// Package errs provides structured error types and helpers for freepool.
package errs

import (
	"errors"
	"strconv"
	"strings"
)

// Code identifies a failure category surfaced by the library.
type Code string

const (
	// CodeTypeKind indicates a required callback is missing or of the wrong kind.
	// It is the only failure validated at construction time.
	CodeTypeKind Code = "type_kind"
	// CodeInvalid indicates invalid input provided by the caller.
	CodeInvalid Code = "invalid_argument"
	// CodeUnavailable indicates the component cannot service the request.
	CodeUnavailable Code = "unavailable"
)

// E captures structured error information produced across the freepool stack.
type E struct {
	Scope   string
	Code    Code
	Message string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the scope and error code.
func New(scope string, code Code, opts ...Option) *E {
	e := &E{
		Scope:   strings.TrimSpace(scope),
		Code:    code,
		Message: "",
		cause:   nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string

	scope := strings.TrimSpace(e.Scope)
	if scope == "" {
		scope = "unknown"
	}
	parts = append(parts, "scope="+scope)

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// IsCode reports whether err carries the provided failure code.
func IsCode(err error, code Code) bool {
	var envelope *E
	if !errors.As(err, &envelope) {
		return false
	}
	return envelope.Code == code
}
