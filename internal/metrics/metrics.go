// Package metrics exposes Prometheus instrumentation for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Falco0906/internship-portal/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbState        prometheus.Gauge
	dbTransitions  *prometheus.CounterVec
	gateRejections *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a metrics instance on its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		dbState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "portal_mongodb_ready_state",
				Help: "Current MongoDB connection state (0 disconnected, 1 connected, 2 connecting, 3 disconnecting)",
			},
		),

		dbTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_mongodb_state_transitions_total",
				Help: "Total number of MongoDB connection state changes by target state",
			},
			[]string{"state"},
		),

		gateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_readiness_rejections_total",
				Help: "Requests refused because the database was not available",
			},
			[]string{"state"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbState,
		m.dbTransitions,
		m.gateRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordHTTPRequest records a finished request against its route pattern.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveState is a database.WithStateObserver callback.
func (m *Metrics) ObserveState(s database.State) {
	m.dbState.Set(float64(s))
	m.dbTransitions.WithLabelValues(s.String()).Inc()
}

// RecordGateRejection counts a request turned away by the readiness gate.
func (m *Metrics) RecordGateRejection(s database.State) {
	m.gateRejections.WithLabelValues(s.String()).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency. Unmatched requests are
// labelled by echo's catch-all pattern so path cardinality stays bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if sc, ok := err.(interface{ HTTPStatus() int }); ok {
					status = sc.HTTPStatus()
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
