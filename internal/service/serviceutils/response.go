package serviceutils

import (
	"errors"
	"net/http"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope used by every non-floor endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError writes a failure envelope. Server-side failures are logged with the
// request's logger; client errors are not.
func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
		if status >= http.StatusInternalServerError {
			logger.ErrorLog(c.Request().Context(), err, "%s", message)
		}
	}
	return c.JSON(status, resp)
}

// StatusFromError maps the domain error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the bare error payload of the floor endpoints.
type ErrorBody struct {
	Error string `json:"error"`
}

// FloorError answers a floor endpoint failure with {"error": ...} and the mapped status.
func FloorError(c echo.Context, err error) error {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(c.Request().Context(), err, "floor request failed")
	}
	return c.JSON(status, ErrorBody{Error: err.Error()})
}
