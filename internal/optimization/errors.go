package optimization

import (
	"errors"
	"fmt"
)

// Sentinel causes that transports map to status codes.
var (
	// ErrInvalidInput marks a contract violation by the caller.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a lookup of an unknown run.
	ErrNotFound = errors.New("not found")
)

// Error represents a labbench error with context that can be wrapped with
// additional information. The numerical core never returns one; it is used
// at the boundaries (config, run orchestration, storage, transport).
type Error struct {
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	prefix := e.Component
	if e.Op != "" {
		if prefix != "" {
			prefix += ": "
		}
		prefix += e.Op
	}

	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}

	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// NewError creates a new error with the given message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// NewErrorf creates a new error with a formatted message.
func NewErrorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf creates an error wrapping ErrInvalidInput.
func InvalidInputf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Err: ErrInvalidInput}
}

// WrapError wraps an existing error with additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Message: message, Err: err}
}

// WrapErrorf wraps an existing error with additional formatted context.
// If err is nil, WrapErrorf returns nil.
func WrapErrorf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Message: fmt.Sprintf(format, args...), Err: err}
}

// IsOptimizationError reports whether err, or any error it wraps, is an
// *Error and returns the outermost one.
func IsOptimizationError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
