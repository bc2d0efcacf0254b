package middleware

import (
	"strings"

	"github.com/Falco0906/internship-portal/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	authCookie = "auth_token"
	// ContextAdminKey holds the token subject of an authenticated admin.
	ContextAdminKey = "admin_subject"
)

// AdminAuth requires an HS256 token signed with secret, taken from the
// Authorization bearer header or the auth_token cookie. An empty secret
// disables the check.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return apperr.Unauthorized("Unauthorized: missing token")
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return apperr.Unauthorized("Unauthorized: invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperr.Unauthorized("Unauthorized: invalid claims")
			}
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				c.Set(ContextAdminKey, sub)
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(authCookie); err == nil {
		return cookie.Value
	}
	return ""
}
