// Package apierr carries the HTTP-facing error taxonomy. Services raise
// these at the point a failure is detected; the REST layer renders them.
package apierr

import (
	"errors"
	"net/http"
)

// Error is a failure with an HTTP status and a client-safe message. Err,
// when set, is the underlying cause and is logged but never rendered.
type Error struct {
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

func newError(status int, message string, details ...string) *Error {
	return &Error{StatusCode: status, Message: message, Errors: details}
}

// BadRequest is a validation failure (400).
func BadRequest(message string, details ...string) *Error {
	return newError(http.StatusBadRequest, message, details...)
}

// Unauthorized is a missing or rejected credential (401).
func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message)
}

// NotFound is a missing resource (404).
func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message)
}

// Conflict is a uniqueness violation (409).
func Conflict(message string) *Error {
	return newError(http.StatusConflict, message)
}

// BadGateway is a failure of an upstream dependency such as the media host (502).
func BadGateway(message string) *Error {
	return newError(http.StatusBadGateway, message)
}

// Internal is an unexpected failure (500).
func Internal(message string) *Error {
	return newError(http.StatusInternalServerError, message)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
