package handler

import "github.com/labstack/echo/v4"

// Handlers groups every handler mounted under /api.
type Handlers struct {
	Attendance *AttendanceHandler
	Employee   *EmployeeHandler
	Production *ProductionHandler
	Stock      *StockHandler
	Admin      *AdminHandler
}

// RegisterRoutes mounts the API on e and installs the request validator.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.Validator = NewRequestValidator()

	api := e.Group("/api")
	api.GET("/health", h.Admin.HealthHandler)

	api.GET("/employees", h.Employee.ListHandler)
	api.POST("/employees", h.Employee.CreateHandler)
	api.GET("/employees/search", h.Employee.SearchHandler)
	api.GET("/employees/:id", h.Employee.GetHandler)
	api.GET("/employees/:id/badge", h.Employee.BadgeHandler)
	api.GET("/departments", h.Employee.DepartmentsHandler)

	api.POST("/attendance", h.Attendance.ToggleHandler)
	api.GET("/attendance", h.Attendance.PresentHandler)
	api.GET("/attendance/roster", h.Attendance.RosterHandler)
	api.GET("/attendance/export", h.Attendance.ExportHandler)
	api.GET("/stats", h.Attendance.StatsHandler)
	api.GET("/dashboard", h.Attendance.StatsHandler)

	api.GET("/daily_products", h.Production.TodayHandler)
	api.POST("/daily_products", h.Production.RecordHandler)
	api.GET("/daily_report", h.Production.ReportHandler)

	api.GET("/stock", h.Stock.ListHandler)
	api.POST("/stock", h.Stock.CreateHandler)
	api.DELETE("/stock/:id", h.Stock.DeleteHandler)
	api.GET("/stock_stats", h.Stock.StatsHandler)

	admin := api.Group("/admin")
	admin.POST("/reindex", h.Admin.ReindexHandler)
}
