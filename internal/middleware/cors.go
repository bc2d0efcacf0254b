package middleware

import (
	"net/http"

	"github.com/Falco0906/internship-portal/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CORS allows the configured origins. Credentials are only allowed when the
// origin list is explicit, since browsers refuse them with a wildcard.
func CORS(cfg config.CORSConfig) echo.MiddlewareFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	wildcard := len(origins) == 1 && origins[0] == "*"

	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: !wildcard,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With",
		},
	})
}
