// Package apperr defines the error type handlers return to the top-level
// error responder. Each error carries the HTTP status it should surface as.
package apperr

import (
	"errors"
	"net/http"
	"runtime/debug"
)

// Error is an API-facing failure.
type Error struct {
	Status  int
	Message string
	Stack   string // captured at construction, only shown in development
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status to respond with, defaulting to 500.
func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message, Stack: string(debug.Stack())}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Stack: string(debug.Stack()), Err: err}
}

// FromPanic builds an error for a recovered panic, keeping the panicking stack.
func FromPanic(err error, stack []byte) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal Server Error", Stack: string(stack), Err: err}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}

func Unavailable(message string, err error) *Error {
	return Wrap(http.StatusServiceUnavailable, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(http.StatusInternalServerError, message, err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
