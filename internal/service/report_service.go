package service

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
	"github.com/dcrew/floortrack/pkg/sheetexport"
)

//go:embed templates/attendance_report.yaml
var defaultReportTemplate []byte

// defaultExportDays is the range exported when no start date is given.
const defaultExportDays = 30

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ExportRange selects the attendance records to export. Empty dates default to
// the last defaultExportDays days ending today.
type ExportRange struct {
	From string
	To   string
}

type attendanceRow struct {
	Date       string
	EmployeeID int
	Name       string
	Department string
	LoginTime  string
	LogoutTime string
	Hours      float64
}

// ReportService exports the registry as a spreadsheet.
type ReportService struct {
	employees *EmployeeService
	clock     domain.Clock
	template  *sheetexport.ReportTemplate
}

// NewReportService loads the layout from templatePath, or the built-in one when empty.
func NewReportService(employees *EmployeeService, clock domain.Clock, templatePath string) (*ReportService, error) {
	raw := defaultReportTemplate
	if templatePath != "" {
		b, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read report template: %w", err)
		}
		raw = b
	}
	tmpl, err := sheetexport.ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid report template: %w", err)
	}
	return &ReportService{employees: employees, clock: clock, template: tmpl}, nil
}

// ExportAttendance writes today's roster and the attendance records in r to w.
func (s *ReportService) ExportAttendance(ctx context.Context, w io.Writer, r ExportRange, format string) error {
	from, to, err := s.resolveRange(r)
	if err != nil {
		return err
	}
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return domain.NewValidation("format", "must be xlsx or csv")
	}

	// both sheets come from one snapshot
	employees, err := s.employees.List(ctx)
	if err != nil {
		return err
	}
	roster := rosterOf(employees, s.clock.Today())
	rows := attendanceRows(employees, from, to)

	exp := sheetexport.New(s.template).
		BindSectionData("roster", roster).
		BindSectionData("attendance", rows).
		RegisterFormatter("hours", func(v interface{}) interface{} {
			if h, ok := v.(float64); ok && h > 0 {
				return fmt.Sprintf("%.2f", h)
			}
			return ""
		})

	if format == FormatCSV {
		err = exp.ToCSV(w)
	} else {
		err = exp.ToWriter(w)
	}
	if err != nil {
		return fmt.Errorf("failed to render attendance report: %w", err)
	}
	logger.InfoLog(ctx, "attendance report %s..%s exported (%d records, %s)", from, to, len(rows), format)
	return nil
}

func (s *ReportService) resolveRange(r ExportRange) (string, string, error) {
	to := r.To
	if to == "" {
		to = s.clock.Today()
	}
	end, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return "", "", domain.NewValidation("to", "must be YYYY-MM-DD")
	}
	from := r.From
	if from == "" {
		from = end.AddDate(0, 0, -(defaultExportDays - 1)).Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, from); err != nil {
		return "", "", domain.NewValidation("from", "must be YYYY-MM-DD")
	}
	if from > to {
		return "", "", domain.NewValidation("from", "must not be after to")
	}
	return from, to, nil
}

// attendanceRows flattens the records dated within [from, to], ordered by date then id.
func attendanceRows(employees []domain.Employee, from, to string) []attendanceRow {
	rows := []attendanceRow{}
	for _, e := range employees {
		for _, rec := range e.Attendance {
			if rec.Date < from || rec.Date > to {
				continue
			}
			row := attendanceRow{
				Date:       rec.Date,
				EmployeeID: e.ID,
				Name:       e.Name,
				Department: e.Department,
				LoginTime:  rec.LoginTime,
			}
			if rec.LogoutTime != nil {
				row.LogoutTime = *rec.LogoutTime
				row.Hours = shiftHours(rec.LoginTime, row.LogoutTime)
			}
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows
}

// shiftHours is the length of a shift in hours. A logout earlier than the login
// belongs to a shift that crossed midnight.
func shiftHours(login, logout string) float64 {
	in, err := time.Parse(domain.TimeLayout, login)
	if err != nil {
		return 0
	}
	out, err := time.Parse(domain.TimeLayout, logout)
	if err != nil {
		return 0
	}
	d := out.Sub(in)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours()
}
