package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportAttendanceWorkbook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	attendance := NewAttendanceService(f.registry, f.clock)
	employees := NewEmployeeService(f.registry, f.clock, nil)
	reports, err := NewReportService(employees, f.clock, "")
	require.NoError(t, err)

	f.clock.Set(at("2024-01-09", "22:00:00"))
	_, err = attendance.Toggle(ctx, 3)
	require.NoError(t, err)
	f.clock.Set(at("2024-01-10", "06:00:00"))
	_, err = attendance.Toggle(ctx, 3) // overnight shift closes on the next day
	require.NoError(t, err)
	f.clock.Set(at("2024-01-10", "09:00:00"))
	_, err = attendance.Toggle(ctx, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, reports.ExportAttendance(ctx, &buf, ExportRange{}, ""))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Roster", "Attendance"}, wb.GetSheetList())

	rows, err := wb.GetRows("Attendance")
	require.NoError(t, err)
	// title, header, two records
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2024-01-09", "3", "Chen", "Sewing", "22:00:00", "06:00:00", "8.00"}, rows[2])
	assert.Equal(t, "2024-01-10", rows[3][0])
	assert.Equal(t, "1", rows[3][1])

	roster, err := wb.GetRows("Roster")
	require.NoError(t, err)
	require.Len(t, roster, 5)
	assert.Equal(t, domain.StatusPresent, roster[2][4])
}

func TestExportAttendanceReadsOneSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reports, err := NewReportService(NewEmployeeService(f.registry, f.clock, nil), f.clock, "")
	require.NoError(t, err)

	before := f.store.loads
	require.NoError(t, reports.ExportAttendance(ctx, &bytes.Buffer{}, ExportRange{}, FormatCSV))
	assert.Equal(t, 1, f.store.loads-before, "roster and attendance share one registry read")
}

func TestExportAttendanceRangeAndFormat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reports, err := NewReportService(NewEmployeeService(f.registry, f.clock, nil), f.clock, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = reports.ExportAttendance(ctx, &buf, ExportRange{From: "2024-02-01", To: "2024-01-01"}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = reports.ExportAttendance(ctx, &buf, ExportRange{To: "tomorrow"}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = reports.ExportAttendance(ctx, &buf, ExportRange{}, "pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, reports.ExportAttendance(ctx, &buf, ExportRange{}, FormatCSV))
	assert.True(t, strings.HasPrefix(buf.String(), "Roster\n"))
}

func TestReportServiceCustomTemplate(t *testing.T) {
	f := newFixture(t)
	employees := NewEmployeeService(f.registry, f.clock, nil)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sheets: []"), 0o644))
	_, err := NewReportService(employees, f.clock, path)
	assert.Error(t, err)

	_, err = NewReportService(employees, f.clock, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSearchDisabledWithoutIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSearchService(f.registry, nil, f.clock)

	_, err := svc.Search(ctx, "Asha")
	assert.ErrorIs(t, err, ErrSearchDisabled)
	_, err = svc.Reindex(ctx)
	assert.ErrorIs(t, err, ErrSearchDisabled)
}

func TestReindexAndSearch(t *testing.T) {
	ctx := context.Background()

	employees := make([]domain.Employee, 0, 450)
	for i := 1; i <= 450; i++ {
		employees = append(employees, domain.Employee{ID: i, Name: "worker", Age: 30, Department: "Line"})
	}
	employees[9].Name = "Asha"
	employees[449].Name = ""
	f := newFixture(t, employees...)
	idx := newFakeIndex()
	svc := NewSearchService(f.registry, idx, f.clock)

	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 449, n, "nameless employees are skipped")
	assert.Equal(t, 3, idx.bulk)

	docs, err := svc.Search(ctx, "Asha")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 10, docs[0].ID)

	docs, err = svc.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, docs)

	_, err = svc.Search(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReindexReportsIndexFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	idx := newFakeIndex()
	idx.failErr = errors.New("cluster red")
	svc := NewSearchService(f.registry, idx, f.clock)

	n, err := svc.Reindex(ctx)
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestReindexStopsAtFirstFailedBatch(t *testing.T) {
	ctx := context.Background()
	employees := make([]domain.Employee, 0, 450)
	for i := 1; i <= 450; i++ {
		employees = append(employees, domain.Employee{ID: i, Name: "worker", Age: 30, Department: "Line"})
	}
	f := newFixture(t, employees...)
	idx := newFakeIndex()
	idx.rejectID = 1
	svc := NewSearchService(f.registry, idx, f.clock)

	n, err := svc.Reindex(ctx)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Zero(t, idx.bulk, "later batches are not indexed")
	assert.Equal(t, 3, idx.bulkCalls, "one call plus two retries")
}
