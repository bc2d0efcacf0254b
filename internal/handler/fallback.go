package handler

import (
	"net/http"

	"github.com/Falco0906/internship-portal/pkg/response"

	"github.com/labstack/echo/v4"
)

// APINotFound answers any /api path no route matched. The path is echoed
// back as requested.
func APINotFound(c echo.Context) error {
	return response.NotFound(c, http.StatusNotFound, c.Request().URL.Path)
}

// Root is served at / when the SPA is not bundled.
func Root(c echo.Context) error {
	return response.Message(c, http.StatusOK, "Internship Portal API is running")
}
