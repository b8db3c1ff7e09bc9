package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dcrew/floortrack/internal/clock"
	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/repository"
	"github.com/dcrew/floortrack/internal/service"
	"github.com/dcrew/floortrack/internal/service/serviceutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e        *echo.Echo
	registry *repository.Memory[[]domain.Employee]
	clock    *clock.Fixed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	registry := repository.NewMemoryRegistry(
		domain.Employee{ID: 1, Name: "Asha Rao", Age: 34, Department: "Cutting", Attendance: []domain.AttendanceRecord{}},
		domain.Employee{ID: 2, Name: "Bilal Khan", Age: 27, Department: "Sewing", Attendance: []domain.AttendanceRecord{}},
	)
	clk := clock.NewFixed(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	reg := service.NewRegistry(registry)
	employees := service.NewEmployeeService(reg, clk, nil)
	reports, err := service.NewReportService(employees, clk, "")
	require.NoError(t, err)
	search := service.NewSearchService(reg, nil, clk)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Attendance: NewAttendanceHandler(service.NewAttendanceService(reg, clk), employees, reports),
		Employee:   NewEmployeeHandler(employees, search),
		Production: NewProductionHandler(service.NewProductionService(repository.NewMemoryProductionLedger(), reg, clk)),
		Stock:      NewStockHandler(service.NewStockService(repository.NewMemoryStockStore(), clk)),
		Admin:      NewAdminHandler(search),
	})
	return &testServer{e: e, registry: registry, clock: clk}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestToggleEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/attendance", `{"id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"working": true}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/attendance", `{"id": "2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"working": true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/attendance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"present": 2}`, rec.Body.String())

	// a scanned badge arrives as the QR text
	s.clock.Advance(8 * time.Hour)
	rec = s.do(http.MethodPost, "/api/attendance", `{"id": "{\"id\":1,\"name\":\"Asha Rao\",\"department\":\"Cutting\"}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"working": false}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/attendance", "")
	assert.JSONEq(t, `{"present": 2}`, rec.Body.String(), "checked out employees still count as present")
}

func TestToggleEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	before, err := s.registry.Load(t.Context())
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown id", `{"id": 99}`, http.StatusNotFound},
		{"negative id", `{"id": -3}`, http.StatusBadRequest},
		{"not a number", `{"id": "abc"}`, http.StatusBadRequest},
		{"missing id", `{}`, http.StatusBadRequest},
		{"broken json", `{"id":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/attendance", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decode[serviceutils.ErrorBody](t, rec)
			assert.NotEmpty(t, body.Error)
		})
	}

	after, err := s.registry.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStatsAndDashboard(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/attendance", `{"id": 2}`)

	for _, path := range []string{"/api/stats", "/api/dashboard"} {
		rec := s.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		stats := decode[domain.Stats](t, rec)
		assert.Equal(t, 10, stats.ActualOutput, path)
		require.Len(t, stats.Departments, 2, path)
		assert.Equal(t, "Cutting", stats.Departments[0].Department)
		assert.Zero(t, stats.Departments[0].Achieved)
		assert.Equal(t, 10, stats.Departments[1].Achieved)
	}
}

func TestEmployeeEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/employees", `{"name": "Chen Wei", "age": 45, "department": "Sewing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Success bool            `json:"success"`
		Data    domain.Employee `json:"data"`
	}](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, 3, created.Data.ID)

	rec = s.do(http.MethodPost, "/api/employees", `{"name": "", "age": 45, "department": "Sewing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	failed := decode[serviceutils.APIResponse](t, rec)
	assert.False(t, failed.Success)
	assert.Contains(t, failed.Error, "name")

	rec = s.do(http.MethodGet, "/api/employees/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/employees/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/api/employees/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/employees", "")
	list := decode[struct {
		Data []domain.Employee `json:"data"`
	}](t, rec)
	assert.Len(t, list.Data, 3)

	rec = s.do(http.MethodGet, "/api/employees/1/badge", "")
	require.Equal(t, http.StatusOK, rec.Code)
	badge := decode[struct {
		Data map[string]string `json:"data"`
	}](t, rec)
	id, err := service.ResolveEmployeeID(badge.Data["payload"])
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	rec = s.do(http.MethodGet, "/api/departments", "")
	heads := decode[struct {
		Data []domain.DepartmentHeadcount `json:"data"`
	}](t, rec)
	assert.Equal(t, []domain.DepartmentHeadcount{
		{Department: "Cutting", Headcount: 1},
		{Department: "Sewing", Headcount: 2},
	}, heads.Data)
}

func TestSearchWithoutIndex(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/employees/search?q=asha", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = s.do(http.MethodPost, "/api/admin/reindex", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRosterAndExport(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/attendance", `{"id": 1}`)

	rec := s.do(http.MethodGet, "/api/attendance/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	roster := decode[struct {
		Data []domain.RosterEntry `json:"data"`
	}](t, rec)
	require.Len(t, roster.Data, 2)
	assert.Equal(t, domain.StatusPresent, roster.Data[0].Status)
	assert.Equal(t, domain.StatusAbsent, roster.Data[1].Status)

	rec = s.do(http.MethodGet, "/api/attendance/roster?date=10-01-2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/attendance/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attendance.xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec = s.do(http.MethodGet, "/api/attendance/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha Rao")

	rec = s.do(http.MethodGet, "/api/attendance/export?from=2024-02-01&to=2024-01-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductionEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/attendance", `{"id": 1}`)

	rec := s.do(http.MethodPost, "/api/daily_products", `{"department": "Cutting", "day_shift": 120, "night_shift": 80}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/daily_products", `{"department": "Cutting", "day_shift": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[serviceutils.APIResponse](t, rec).Error, "day_shift")

	rec = s.do(http.MethodGet, "/api/daily_products", "")
	today := decode[struct {
		Data []domain.ProductionEntry `json:"data"`
	}](t, rec)
	assert.Equal(t, []domain.ProductionEntry{{Department: "Cutting", DayShift: 120, NightShift: 80}}, today.Data)

	rec = s.do(http.MethodGet, "/api/daily_report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[struct {
		Data domain.DailyReport `json:"data"`
	}](t, rec)
	assert.Equal(t, "2024-01-10", report.Data.Date)
	assert.Equal(t, 1, report.Data.Attendance)
}

func TestStockEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/stock", `{"material": "Cotton fabric", "quantity": 100, "avg_daily_use": 20, "lead_time_days": 7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/stock", `{"material": "Buttons", "last_restock": "yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/stock_stats", "")
	proj := decode[struct {
		Data []domain.StockProjection `json:"data"`
	}](t, rec)
	require.Len(t, proj.Data, 1)
	assert.True(t, proj.Data[0].Reorder)
	assert.Equal(t, "2024-01-10", proj.Data[0].LastRestock)

	rec = s.do(http.MethodDelete, "/api/stock/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodDelete, "/api/stock/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/stock", "")
	assert.Empty(t, decode[struct {
		Data []domain.StockItem `json:"data"`
	}](t, rec).Data)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}
