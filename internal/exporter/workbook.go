package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"shiftpulse/internal/dataprocessing"
	"shiftpulse/pkg/contracts/domain"
)

// DefaultTopEmployees is the ranking depth of the Top Employees sheet.
const DefaultTopEmployees = 20

// Sheet names in workbook order.
const (
	sheetByEmployee   = "By Employee"
	sheetByMonth      = "By Month"
	sheetDailyTotals  = "Daily Totals"
	sheetTopEmployees = "Top Employees"
)

var (
	employeeHeader = []interface{}{
		"Employee ID", "Employee Name", "Total Overtime (hrs)", "Avg Overtime (hrs)",
		"Total Hours Worked", "Records", "Days Worked",
		"Total Overtime (HH:MM:SS)", "Total Overtime (DD:HH:MM:SS)",
		"Avg Overtime (HH:MM:SS)", "Avg Overtime (DD:HH:MM:SS)",
	}
	monthHeader = []interface{}{
		"Month", "Total Overtime (hrs)", "Avg Overtime (hrs)",
		"Total Hours Worked", "Records", "Unique Employees",
		"Total Overtime (HH:MM:SS)", "Total Overtime (DD:HH:MM:SS)",
	}
	dailyHeader = []interface{}{
		"Date", "Total Overtime (hrs)", "Avg Overtime (hrs)",
		"Total Hours Worked", "Records", "Unique Employees",
		"Total Overtime (HH:MM:SS)", "Total Overtime (DD:HH:MM:SS)",
	}
	topHeader = []interface{}{
		"Rank", "Employee ID", "Employee Name",
		"Total Overtime (hrs)", "Total Overtime (HH:MM:SS)",
	}
)

// WorkbookBuilder renders a RecordSet's rollups into a multi-sheet xlsx
// workbook suitable for downstream spreadsheet consumers.
type WorkbookBuilder struct {
	logger *slog.Logger
	topN   int
}

// NewWorkbookBuilder creates a builder with the default ranking depth.
func NewWorkbookBuilder(logger *slog.Logger) *WorkbookBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookBuilder{logger: logger, topN: DefaultTopEmployees}
}

// WithTopN overrides the Top Employees ranking depth.
func (b *WorkbookBuilder) WithTopN(n int) *WorkbookBuilder {
	b.topN = n
	return b
}

// Write streams the summary workbook. An empty RecordSet produces header-only
// sheets rather than an error, so a fresh export is always well-formed.
func (b *WorkbookBuilder) Write(ctx context.Context, w io.Writer, rs *domain.RecordSet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetByEmployee); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetByMonth, sheetDailyTotals, sheetTopEmployees} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	if err := b.writeSheet(f, sheetByEmployee, headerStyle, employeeHeader, employeeRows(dataprocessing.ByEmployee(rs))); err != nil {
		return err
	}
	if err := b.writeSheet(f, sheetByMonth, headerStyle, monthHeader, periodRows(dataprocessing.ByMonth(rs))); err != nil {
		return err
	}
	if err := b.writeSheet(f, sheetDailyTotals, headerStyle, dailyHeader, periodRows(dataprocessing.ByDay(rs))); err != nil {
		return err
	}
	if err := b.writeSheet(f, sheetTopEmployees, headerStyle, topHeader, topRows(dataprocessing.TopN(rs, b.topN))); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	b.logger.InfoContext(ctx, "summary workbook written",
		slog.Int("records", rs.Len()),
		slog.Int("top_n", b.topN))
	return nil
}

func (b *WorkbookBuilder) writeSheet(f *excelize.File, sheet string, style int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+2, sheet, err)
		}
	}
	return nil
}

func employeeRows(rows []domain.AggregateRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{
			r.Key, r.EmployeeName,
			round2(r.TotalOvertimeHours), round2(r.AvgOvertimeHours),
			round2(r.TotalHoursWorked), r.Records, r.DaysWorked,
			r.TotalOvertimeHHMMSS, r.TotalOvertimeDDHHMM,
			r.AvgOvertimeHHMMSS, r.AvgOvertimeDDHHMM,
		})
	}
	return out
}

func periodRows(rows []domain.AggregateRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{
			r.Key,
			round2(r.TotalOvertimeHours), round2(r.AvgOvertimeHours),
			round2(r.TotalHoursWorked), r.Records, r.UniqueEmployees,
			r.TotalOvertimeHHMMSS, r.TotalOvertimeDDHHMM,
		})
	}
	return out
}

func topRows(rows []domain.AggregateRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for i, r := range rows {
		out = append(out, []interface{}{
			i + 1, r.Key, r.EmployeeName,
			round2(r.TotalOvertimeHours), r.TotalOvertimeHHMMSS,
		})
	}
	return out
}
