package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
)

type EmployeeHandler struct {
	svc    *service.EmployeeService
	search *service.SearchService
}

func NewEmployeeHandler(svc *service.EmployeeService, search *service.SearchService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, search: search}
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee", err)
	}

	emp, err := h.svc.Create(c.Request().Context(), service.NewEmployee{
		Name:       req.Name,
		Age:        req.Age,
		Department: req.Department,
	})
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to create employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", emp)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to get employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to list employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees retrieved successfully", employees)
}

// BadgeHandler returns the text to encode into the employee's QR badge.
func (h *EmployeeHandler) BadgeHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	payload, err := h.svc.Badge(c.Request().Context(), id)
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to build badge", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Badge generated successfully", map[string]string{"payload": payload})
}

func (h *EmployeeHandler) SearchHandler(c echo.Context) error {
	docs, err := h.search.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		status := serviceutils.StatusFromError(err)
		if errors.Is(err, service.ErrSearchDisabled) {
			status = http.StatusServiceUnavailable
		}
		return serviceutils.ResponseError(c, status, "Failed to search employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees found", docs)
}

func (h *EmployeeHandler) DepartmentsHandler(c echo.Context) error {
	heads, err := h.svc.Departments(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, serviceutils.StatusFromError(err), "Failed to count departments", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Departments retrieved successfully", heads)
}
