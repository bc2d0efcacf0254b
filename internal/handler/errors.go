package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Falco0906/internship-portal/internal/apperr"
	"github.com/Falco0906/internship-portal/internal/logger"
	"github.com/Falco0906/internship-portal/pkg/response"

	"github.com/labstack/echo/v4"
)

const fallbackMessage = "Something went wrong!"

// ErrorResponder is installed as echo's HTTPErrorHandler. Every failure is
// logged; the stack trace is only sent to clients in development.
func ErrorResponder(log *logger.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil {
			return
		}
		status, message, stack := describe(err)

		req := c.Request()
		log.HTTPError(req.Method, req.URL.Path, status, err, stack)

		if c.Response().Committed {
			return
		}
		if !development {
			stack = ""
		}

		var writeErr error
		if req.Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = response.Error(c, status, message, stack)
		}
		if writeErr != nil {
			log.Error("failed to write error response", "error", writeErr.Error())
		}
	}
}

// describe maps err to the status, client message and stack trace to report.
// Only app errors carry a stack, captured where they were built; framework
// and plain errors have none worth showing.
func describe(err error) (int, string, string) {
	if appErr, ok := apperr.As(err); ok {
		return appErr.HTTPStatus(), orFallback(appErr.Message), appErr.Stack
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status := he.Code
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, orFallback(httpErrorMessage(he)), ""
	}

	return http.StatusInternalServerError, orFallback(err.Error()), ""
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}

func orFallback(msg string) string {
	if msg == "" {
		return fallbackMessage
	}
	return msg
}
