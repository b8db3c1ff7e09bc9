package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	search  *service.SearchService
	started time.Time
}

func NewAdminHandler(search *service.SearchService) *AdminHandler {
	return &AdminHandler{search: search, started: time.Now()}
}

func (h *AdminHandler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Truncate(time.Second).String(),
	})
}

// ReindexHandler rebuilds the identity index from the registry.
func (h *AdminHandler) ReindexHandler(c echo.Context) error {
	n, err := h.search.Reindex(c.Request().Context())
	if err != nil {
		status := serviceutils.StatusFromError(err)
		if errors.Is(err, service.ErrSearchDisabled) {
			status = http.StatusServiceUnavailable
		}
		return serviceutils.ResponseError(c, status, "Failed to reindex employees", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees reindexed successfully", ReindexResponse{Indexed: n})
}
