package handler

import (
	"context"
	"net/http"

	"github.com/Falco0906/internship-portal/internal/apperr"
	"github.com/Falco0906/internship-portal/internal/core"
	"github.com/Falco0906/internship-portal/pkg/response"

	"github.com/labstack/echo/v4"
)

// InternshipService is what the CRUD handlers need from the service layer.
type InternshipService interface {
	List(ctx context.Context, filter core.InternshipFilter) ([]core.Internship, error)
	Get(ctx context.Context, id string) (*core.Internship, error)
	Create(ctx context.Context, input core.InternshipInput) (*core.Internship, error)
	Update(ctx context.Context, id string, input core.InternshipInput) (*core.Internship, error)
	Delete(ctx context.Context, id string) error
}

type InternshipHandler struct {
	svc InternshipService
}

func NewInternshipHandler(svc InternshipService) *InternshipHandler {
	return &InternshipHandler{svc: svc}
}

func (h *InternshipHandler) List(c echo.Context) error {
	filter := core.InternshipFilter{
		Company:  c.QueryParam("company"),
		Location: c.QueryParam("location"),
		Type:     c.QueryParam("type"),
		Status:   c.QueryParam("status"),
		Query:    c.QueryParam("q"),
	}
	items, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, items)
}

func (h *InternshipHandler) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, item)
}

func (h *InternshipHandler) Create(c echo.Context) error {
	input, err := bindInput(c)
	if err != nil {
		return err
	}
	item, err := h.svc.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, item)
}

func (h *InternshipHandler) Update(c echo.Context) error {
	input, err := bindInput(c)
	if err != nil {
		return err
	}
	item, err := h.svc.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, item)
}

func (h *InternshipHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Internship deleted")
}

// bindInput decodes the JSON body only; path and query values never
// populate the input.
func bindInput(c echo.Context) (core.InternshipInput, error) {
	var input core.InternshipInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &input); err != nil {
		return input, apperr.Wrap(http.StatusBadRequest, "Invalid JSON", err)
	}
	return input, nil
}
