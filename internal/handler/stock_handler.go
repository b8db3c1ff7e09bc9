package handler

import (
	"net/http"
	"strconv"

	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
)

type StockHandler struct {
	svc *service.StockService
}

func NewStockHandler(svc *service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) ListHandler(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to list stock", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Stock retrieved successfully", items)
}

func (h *StockHandler) CreateHandler(c echo.Context) error {
	var req StockRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid stock item", err)
	}

	item, err := h.svc.Add(c.Request().Context(), req.toItem())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to add stock item", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Stock item added successfully", item)
}

func (h *StockHandler) DeleteHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid stock item ID", err)
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to delete stock item", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Stock item deleted successfully", nil)
}

// StatsHandler returns the consumption projection of every item.
func (h *StockHandler) StatsHandler(c echo.Context) error {
	projection, err := h.svc.Projection(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to project stock", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Stock projection generated successfully", projection)
}
