package domain

import "time"

const (
	// DateLayout is the calendar date format used for attendance records.
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format used for login/logout times.
	TimeLayout = "15:04:05"
)

// ==================== EMPLOYEE REGISTRY ====================

// Employee is one worker in the registry together with its attendance history.
type Employee struct {
	ID         int                `json:"id" db:"id"`
	Name       string             `json:"name" db:"name"`
	Age        int                `json:"age" db:"age"`
	Department string             `json:"department" db:"department"`
	Working    bool               `json:"working" db:"working"`
	Attendance []AttendanceRecord `json:"attendance"`
}

// AttendanceRecord summarises one calendar day for one employee.
// LogoutTime is nil while the employee is checked in.
type AttendanceRecord struct {
	Date       string  `json:"date" db:"date"`
	LoginTime  string  `json:"login_time,omitempty" db:"login_time"`
	LogoutTime *string `json:"logout_time" db:"logout_time"`
}

// Open reports whether the record has a login without a matching logout.
func (r AttendanceRecord) Open() bool {
	return r.LoginTime != "" && r.LogoutTime == nil
}

// Roster statuses.
const (
	StatusAbsent     = "Absent"
	StatusPresent    = "Present"
	StatusCheckedOut = "Checked Out"
)

// RosterEntry is the per-employee view of one day.
type RosterEntry struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Department string `json:"department"`
	Working    bool   `json:"working"`
	Status     string `json:"status"`
	LoginTime  string `json:"login_time,omitempty"`
	LogoutTime string `json:"logout_time,omitempty"`
}

// ==================== PRESENCE SUMMARIES ====================

// AgeBand is one decade bucket of the workforce.
type AgeBand struct {
	AgeGroup     string `json:"age_group"`
	Count        int    `json:"count"`
	Productivity int    `json:"productivity"`
}

// DepartmentOutput is achieved versus target output for one department.
type DepartmentOutput struct {
	Department string `json:"department"`
	Target     int    `json:"target"`
	Achieved   int    `json:"achieved"`
}

// Stats is the dashboard aggregate derived from the registry.
type Stats struct {
	AgeSegmentation []AgeBand          `json:"ageSegmentation"`
	Departments     []DepartmentOutput `json:"departments"`
	PredictedOutput int                `json:"predicted_output"`
	ActualOutput    int                `json:"actual_output"`
	Efficiency      float64            `json:"efficiency"`
}

// StatsPolicy holds the constants the aggregator scores output with.
type StatsPolicy struct {
	PredictedOutput  int
	DepartmentTarget int
	UnitOutput       int
}

// DefaultStatsPolicy mirrors the fixed constants used on the floor dashboard.
var DefaultStatsPolicy = StatsPolicy{
	PredictedOutput:  1000,
	DepartmentTarget: 100,
	UnitOutput:       10,
}

// ==================== PRODUCTION & STOCK ====================

// ProductionEntry is one department's output reported for a day.
type ProductionEntry struct {
	Department string `json:"department"`
	DayShift   int    `json:"day_shift"`
	NightShift int    `json:"night_shift"`
}

// DailyReport combines presence with the production reported for the same day.
type DailyReport struct {
	Date          string            `json:"date"`
	Attendance    int               `json:"attendance"`
	DailyProducts []ProductionEntry `json:"daily_products"`
}

// StockItem is a raw material kept on the floor.
type StockItem struct {
	ID           int     `json:"id"`
	Material     string  `json:"material"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	AvgDailyUse  int     `json:"avg_daily_use"`
	LeadTimeDays int     `json:"lead_time_days"`
	DemandTrend  float64 `json:"demand_trend"`
	LastRestock  string  `json:"last_restock"`
}

// StockProjection is the consumption outlook for one stock item.
type StockProjection struct {
	StockItem
	RemainingAfterLeadTime int     `json:"remaining_after_lead_time"`
	DaysOfCover            float64 `json:"days_of_cover"`
	Reorder                bool    `json:"reorder"`
}

// ==================== IDENTITY ====================

// BadgePayload is the JSON document encoded into an employee's QR badge.
type BadgePayload struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// EmployeeDoc is the identity index document for an employee.
type EmployeeDoc struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Department string    `json:"department"`
	Working    bool      `json:"working"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// DepartmentHeadcount is the manpower view of one department.
type DepartmentHeadcount struct {
	Department string `json:"department"`
	Headcount  int    `json:"headcount"`
	Working    int    `json:"working"`
}
