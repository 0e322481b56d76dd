package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shiftpulse/internal/dataprocessing"
	"shiftpulse/pkg/contracts/domain"
)

// attendanceWorkbook builds an in-memory upload with one October sheet.
func attendanceWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "October"))

	all := append([][]interface{}{
		{"PIN CODE", "FULL NAME", "DATE", "HOURS WORKED", "OVERTIME HOURS", "TARGET"},
	}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("October", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func loadedService(t *testing.T) *AttendanceService {
	t.Helper()
	svc := NewAttendanceService(nil, NewMetrics(prometheus.NewRegistry()))
	_, err := svc.Ingest(context.Background(), attendanceWorkbook(t, [][]interface{}{
		{"1001", "Dana Ahmed", "2025-10-06", "10.5", "02:30:00", "8"},
		{"1001", "Dana Ahmed", "2025-10-07", "9.25", "1.25", "8"},
		{"1002", "Omar K", "2025-10-06", "8", "0.5", "8"},
	}))
	require.NoError(t, err)
	return svc
}

func TestAttendanceService_Ingest(t *testing.T) {
	svc := NewAttendanceService(nil, nil)
	assert.False(t, svc.Loaded())

	result, err := svc.Ingest(context.Background(), attendanceWorkbook(t, [][]interface{}{
		{"1001", "Dana Ahmed", "2025-10-06", "10.5", "02:30:00", "8"},
		{"1002", "Omar K", "not a date", "8", "", "8"},
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, result.AcceptedRecords)
	assert.Equal(t, 1, result.RejectedRecords)
	assert.Equal(t, []string{"October"}, result.SourceSheets)
	assert.True(t, svc.Loaded())
}

func TestAttendanceService_IngestEmptyKeepsPrevious(t *testing.T) {
	svc := loadedService(t)

	_, err := svc.Ingest(context.Background(), attendanceWorkbook(t, [][]interface{}{
		{"", "Nobody", "not a date", "", "", ""},
	}))
	require.ErrorIs(t, err, dataprocessing.ErrEmptyResult)

	// Previous data still serves reads.
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRecords)
}

func TestAttendanceService_NoDataLoaded(t *testing.T) {
	svc := NewAttendanceService(nil, nil)
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	assert.ErrorIs(t, err, ErrNoDataLoaded)
	_, err = svc.Summary(ctx, domain.GroupByEmployee)
	assert.ErrorIs(t, err, ErrNoDataLoaded)
	_, err = svc.Top(ctx, 5)
	assert.ErrorIs(t, err, ErrNoDataLoaded)
	_, err = svc.EmployeeDetail(ctx, "1001")
	assert.ErrorIs(t, err, ErrNoDataLoaded)
	assert.ErrorIs(t, svc.ExportWorkbook(ctx, &bytes.Buffer{}), ErrNoDataLoaded)
}

func TestAttendanceService_Stats(t *testing.T) {
	stats, err := loadedService(t).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.UniqueEmployees)
	assert.InDelta(t, 4.25, stats.TotalOvertimeHours, 1e-9)
}

func TestAttendanceService_Summary(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	employees, err := svc.Summary(ctx, domain.GroupByEmployee)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "1001", employees[0].Key)
	assert.InDelta(t, 3.75, employees[0].TotalOvertimeHours, 1e-9)

	months, err := svc.Summary(ctx, domain.GroupByMonth)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2025-10", months[0].Key)

	daily, err := svc.Summary(ctx, domain.GroupByDay)
	require.NoError(t, err)
	assert.Len(t, daily, 2)

	_, err = svc.Summary(ctx, domain.Grouping("weekly"))
	assert.ErrorIs(t, err, ErrInvalidGrouping)
}

func TestAttendanceService_TopAndDetail(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	top, err := svc.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "1001", top[0].Key)

	records, err := svc.EmployeeDetail(ctx, "1001")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = svc.EmployeeDetail(ctx, "9999")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestAttendanceService_ExportWorkbook(t *testing.T) {
	svc := loadedService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "By Employee")
	assert.Contains(t, f.GetSheetList(), "Top Employees")
}

func TestHealthService_Check(t *testing.T) {
	svc := loadedService(t)
	health := NewHealthService("1.2.3", "2026-08-01T00:00:00Z", svc, nil)

	status := health.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.True(t, status.DataLoaded)

	empty := NewHealthService("1.2.3", "", NewAttendanceService(nil, nil), nil)
	assert.False(t, empty.Check(context.Background()).DataLoaded)
}
