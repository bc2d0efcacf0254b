package handler

import (
	"net/http"
	"time"

	"github.com/Falco0906/internship-portal/internal/database"

	"github.com/labstack/echo/v4"
)

// DatabaseStatus is the view of the connection manager the status
// endpoints need.
type DatabaseStatus interface {
	State() database.State
	DatabaseName() string
}

type SystemHandler struct {
	db  DatabaseStatus
	now func() time.Time
}

func NewSystemHandler(db DatabaseStatus) *SystemHandler {
	return &SystemHandler{db: db, now: time.Now}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	MongoDB string `json:"mongodb"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	System     string `json:"system"`
	DB         string `json:"db"`
	ReadyState int    `json:"readyState"`
	Database   string `json:"database"`
	Time       string `json:"time"`
}

// Health reports liveness. It reads the connection state only and never
// touches the database, so it answers even while MongoDB is down.
func (h *SystemHandler) Health(c echo.Context) error {
	mongo := "disconnected"
	if h.db.State() == database.Connected {
		mongo = "connected"
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", MongoDB: mongo})
}

func (h *SystemHandler) Status(c echo.Context) error {
	state := h.db.State()
	return c.JSON(http.StatusOK, StatusResponse{
		System:     "operational",
		DB:         state.String(),
		ReadyState: int(state),
		Database:   h.db.DatabaseName(),
		Time:       h.now().UTC().Format(time.RFC3339),
	})
}
