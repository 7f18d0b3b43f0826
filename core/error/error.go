// File: error.go
// Title: Core Error Implementation
// Description: Implements the main Error type with codes, severity, and
//              detail metadata while staying compatible with Go's standard
//              error interface including errors.Is/As/Unwrap.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package error

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Error represents a structured error with code, severity, and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time
	operation string
	details   map[string]interface{}
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:   message,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context. Code, severity,
// and details of a wrapped *Error are preserved.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{
		message:   message,
		cause:     err,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}

	var inner *Error
	if stderrors.As(err, &inner) {
		wrapped.code = inner.code
		wrapped.severity = inner.severity
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}

	return wrapped
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the wrapped cause for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code and adjusts the severity default
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	e.severity = GetSeverityFromCode(code)
	return e
}

// WithSeverity overrides the severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithOperation records the operation that produced the error
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail adds a single detail value
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Operation returns the recorded operation
func (e *Error) Operation() string {
	return e.operation
}

// Timestamp returns when the error was created
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Details returns the detail metadata
func (e *Error) Details() map[string]interface{} {
	return e.details
}

// Message returns the error message without the cause chain
func (e *Error) Message() string {
	return e.message
}

// CodeOf extracts the error code from any error; non-mDS errors report
// CodeUnknown, nil reports the empty code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
