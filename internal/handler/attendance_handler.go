package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// AttendanceHandler serves the floor endpoints used by the check-in kiosk and the dashboard.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	employees  *service.EmployeeService
	reports    *service.ReportService
}

func NewAttendanceHandler(attendance *service.AttendanceService, employees *service.EmployeeService, reports *service.ReportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, employees: employees, reports: reports}
}

// ToggleHandler flips the employee's working state: POST /api/attendance {"id": ...}.
func (h *AttendanceHandler) ToggleHandler(c echo.Context) error {
	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, serviceutils.ErrorBody{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.FloorError(c, err)
	}

	res, err := h.attendance.ToggleRaw(c.Request().Context(), req.Raw())
	if err != nil {
		return serviceutils.FloorError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// PresentHandler answers GET /api/attendance with today's present count.
func (h *AttendanceHandler) PresentHandler(c echo.Context) error {
	n, err := h.attendance.PresentToday(c.Request().Context())
	if err != nil {
		return serviceutils.FloorError(c, err)
	}
	return c.JSON(http.StatusOK, PresentResponse{Present: n})
}

// StatsHandler serves both /api/stats and /api/dashboard.
func (h *AttendanceHandler) StatsHandler(c echo.Context) error {
	stats, err := h.attendance.Stats(c.Request().Context())
	if err != nil {
		return serviceutils.FloorError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AttendanceHandler) RosterHandler(c echo.Context) error {
	roster, err := h.employees.Roster(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to build roster", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Roster retrieved successfully", roster)
}

// ExportHandler streams the attendance workbook as an attachment.
func (h *AttendanceHandler) ExportHandler(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = service.FormatXLSX
	}
	r := service.ExportRange{From: c.QueryParam("from"), To: c.QueryParam("to")}

	var buf bytes.Buffer
	if err := h.reports.ExportAttendance(c.Request().Context(), &buf, r, format); err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to export attendance", err)
	}

	contentType := contentTypeXLSX
	if format == service.FormatCSV {
		contentType = contentTypeCSV
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance.%s"`, format))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
