package middleware

import (
	"github.com/Falco0906/internship-portal/internal/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs every completed request through log. It runs after the
// request id middleware so the id is available on the response header.
// Handler errors are passed to the error handler here, before the status is
// logged; errors already written stop at this middleware so they are not
// reported twice.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	logRequests := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.HTTPRequest(v.Method, v.URI, v.Status, float64(v.Latency.Microseconds())/1000, v.RemoteIP, v.RequestID)
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := logRequests(next)
		return func(c echo.Context) error {
			if err := h(c); err != nil && !c.Response().Committed {
				return err
			}
			return nil
		}
	}
}
