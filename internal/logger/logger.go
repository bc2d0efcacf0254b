// Package logger provides structured logging for the server.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with a few event helpers.
type Logger struct {
	*slog.Logger
}

// New creates a logger for env. Development gets human-readable text at
// debug level, everything else JSON at info. A non-empty level overrides.
func New(env, level string) *Logger {
	return NewWithWriter(os.Stdout, env, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, env, level string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env != "production" {
		opts.Level = slog.LevelDebug
		if level != "" {
			opts.Level = parseLevel(level)
		}
		handler = slog.NewTextHandler(w, opts)
	} else {
		if level != "" {
			opts.Level = parseLevel(level)
		}
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HTTPRequest logs a completed HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP, requestID string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
		slog.String("request_id", requestID),
	)
}

// HTTPError logs a failure that reached the top-level error responder.
func (l *Logger) HTTPError(method, path string, status int, err error, stack string) {
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if stack != "" {
		attrs = append(attrs, slog.String("stack", stack))
	}
	l.Error("http_error", attrs...)
}

// DatabaseEvent logs a connection lifecycle notification.
func (l *Logger) DatabaseEvent(event string, attrs ...any) {
	l.Info("database_event", append([]any{slog.String("event", event)}, attrs...)...)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error, attrs ...any) {
	l.Error("database_error", append([]any{
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	}, attrs...)...)
}

// GateRejected logs a request turned away because the database is not ready.
func (l *Logger) GateRejected(method, path string, readyState int) {
	l.Error("database_unavailable",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("ready_state", readyState),
	)
}
