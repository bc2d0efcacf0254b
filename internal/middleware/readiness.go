package middleware

import (
	"net/http"

	"github.com/Falco0906/internship-portal/internal/database"
	"github.com/Falco0906/internship-portal/internal/logger"

	"github.com/labstack/echo/v4"
)

// Decision is the outcome of checking the connection state for one request.
type Decision int

const (
	Allow Decision = iota
	AllowWithWarning
	Reject
)

// CheckReadiness decides whether a request may reach a database-backed handler.
func CheckReadiness(state database.State) Decision {
	switch state {
	case database.Connected:
		return Allow
	case database.Connecting:
		return AllowWithWarning
	default:
		return Reject
	}
}

// UnavailableBody is written when the gate refuses a request.
type UnavailableBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	ReadyState int    `json:"readyState"`
}

// RejectionRecorder is notified of every refused request.
type RejectionRecorder interface {
	RecordGateRejection(database.State)
}

// ReadinessGate refuses requests with 503 while the database is not
// connected. Requests made while the first connection attempt is still in
// flight are let through with a warning.
func ReadinessGate(source database.StateSource, log *logger.Logger, rec RejectionRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := source.State()
			req := c.Request()

			switch CheckReadiness(state) {
			case Reject:
				log.GateRejected(req.Method, req.URL.Path, int(state))
				if rec != nil {
					rec.RecordGateRejection(state)
				}
				return c.JSON(http.StatusServiceUnavailable, UnavailableBody{
					Error:      "Database connection not available",
					Message:    "MongoDB is disconnected. Please check connection string.",
					ReadyState: int(state),
				})
			case AllowWithWarning:
				log.Warn("database still connecting",
					"method", req.Method,
					"path", req.URL.Path,
					"ready_state", int(state),
				)
			}
			return next(c)
		}
	}
}
