package handler

import (
	"net/http"

	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
)

type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

func (h *ProductionHandler) RecordHandler(c echo.Context) error {
	var req ProductionRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid production entry", err)
	}

	entry, err := h.svc.Record(c.Request().Context(), req.toEntry())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to record production", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Production recorded successfully", entry)
}

func (h *ProductionHandler) TodayHandler(c echo.Context) error {
	entries, err := h.svc.Today(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to load production", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Production retrieved successfully", entries)
}

func (h *ProductionHandler) ReportHandler(c echo.Context) error {
	report, err := h.svc.DailyReport(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to build daily report", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Daily report generated successfully", report)
}
