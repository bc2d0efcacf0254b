package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Falco0906/internship-portal/internal/apperr"
	"github.com/Falco0906/internship-portal/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveState(t *testing.T) {
	m := New()

	m.ObserveState(database.Connecting)
	m.ObserveState(database.Connected)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbState))

	m.ObserveState(database.Disconnected)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbState))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbTransitions.WithLabelValues("connected")))
}

func TestRecordGateRejection(t *testing.T) {
	m := New()
	m.RecordGateRejection(database.Disconnected)
	m.RecordGateRejection(database.Disconnected)
	m.RecordGateRejection(database.Disconnecting)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateRejections.WithLabelValues("disconnected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateRejections.WithLabelValues("disconnecting")))
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/internships/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/api/boom", func(c echo.Context) error {
		return apperr.Unavailable("down", errors.New("x"))
	})

	for _, path := range []string{"/api/internships/1", "/api/internships/2", "/api/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/internships/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/boom", "503")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/api/health", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "portal_http_requests_total"))
	assert.Contains(t, body, "portal_mongodb_ready_state")
}
