package handler

import (
	"encoding/json"
	"strings"

	"github.com/dcrew/floortrack/internal/domain"
)

// ToggleRequest is the body of POST /api/attendance. id is what the scanner or the
// keyboard produced: a number, a numeric string or a badge payload.
type ToggleRequest struct {
	ID json.RawMessage `json:"id" validate:"required"`
}

// Raw returns the id as scanner text, unquoting JSON strings.
func (r ToggleRequest) Raw() string {
	raw := strings.TrimSpace(string(r.ID))
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}

// CreateEmployeeRequest is the body of POST /api/employees.
type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Age        int    `json:"age" validate:"required,gte=1,lte=120"`
	Department string `json:"department" validate:"required,max=60"`
}

// ProductionRequest is the body of POST /api/daily_products.
type ProductionRequest struct {
	Department string `json:"department" validate:"required"`
	DayShift   int    `json:"day_shift" validate:"gte=0"`
	NightShift int    `json:"night_shift" validate:"gte=0"`
}

func (r ProductionRequest) toEntry() domain.ProductionEntry {
	return domain.ProductionEntry{Department: r.Department, DayShift: r.DayShift, NightShift: r.NightShift}
}

// StockRequest is the body of POST /api/stock.
type StockRequest struct {
	Material     string  `json:"material" validate:"required"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	Unit         string  `json:"unit"`
	AvgDailyUse  int     `json:"avg_daily_use" validate:"gte=0"`
	LeadTimeDays int     `json:"lead_time_days" validate:"gte=0"`
	DemandTrend  float64 `json:"demand_trend" validate:"gte=0"`
	LastRestock  string  `json:"last_restock" validate:"omitempty,datetime=2006-01-02"`
}

func (r StockRequest) toItem() domain.StockItem {
	return domain.StockItem{
		Material:     r.Material,
		Category:     r.Category,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		AvgDailyUse:  r.AvgDailyUse,
		LeadTimeDays: r.LeadTimeDays,
		DemandTrend:  r.DemandTrend,
		LastRestock:  r.LastRestock,
	}
}

// PresentResponse is the body of GET /api/attendance.
type PresentResponse struct {
	Present int `json:"present"`
}

// ReindexResponse is the data of POST /api/admin/reindex.
type ReindexResponse struct {
	Indexed int `json:"indexed"`
}
