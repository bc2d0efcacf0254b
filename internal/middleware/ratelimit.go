package middleware

import (
	"github.com/Falco0906/internship-portal/internal/apperr"

	"github.com/labstack/echo/v4"
)

// Limiter reports whether another request from key is allowed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit rejects requests over the per-IP limit with 429. A nil limiter
// disables it.
func RateLimit(l Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if l == nil {
			return next
		}
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return apperr.TooManyRequests("Too many requests, please try again later.")
			}
			return next(c)
		}
	}
}
