// Package response holds the JSON bodies shared by every endpoint.
package response

import (
	"github.com/labstack/echo/v4"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}

// NotFoundBody is returned for unknown /api routes.
type NotFoundBody struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

// MessageBody carries a single human-readable message.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends data with the given status code
func JSON(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, data)
}

// Message sends {"message": msg}
func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageBody{Message: msg})
}

// Error sends {"error": msg}, adding the stack trace when one is given.
func Error(c echo.Context, status int, msg, stack string) error {
	return c.JSON(status, ErrorBody{Error: msg, Stack: stack})
}

// NotFound sends the body for an unmatched API path.
func NotFound(c echo.Context, status int, path string) error {
	return c.JSON(status, NotFoundBody{Error: "API endpoint not found", Path: path})
}
