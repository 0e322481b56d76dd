package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shiftpulse/internal/dataprocessing"
	"shiftpulse/pkg/contracts/domain"
)

// CSVWriter writes summary rollups as one CSV file per grouping, for
// consumers that prefer flat files over the xlsx workbook.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV summary writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteSummaries writes by_employee.csv, by_month.csv, daily_totals.csv and
// top_employees.csv into dir, creating it if needed. Files carry a UTF-8 BOM
// so Excel opens them with the right encoding.
func (w *CSVWriter) WriteSummaries(ctx context.Context, dir string, rs *domain.RecordSet) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	files := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{"by_employee.csv", csvHeaders(employeeHeader), csvRecords(employeeRows(dataprocessing.ByEmployee(rs)))},
		{"by_month.csv", csvHeaders(monthHeader), csvRecords(periodRows(dataprocessing.ByMonth(rs)))},
		{"daily_totals.csv", csvHeaders(dailyHeader), csvRecords(periodRows(dataprocessing.ByDay(rs)))},
		{"top_employees.csv", csvHeaders(topHeader), csvRecords(topRows(dataprocessing.TopN(rs, DefaultTopEmployees)))},
	}

	for _, f := range files {
		if err := w.writeFile(filepath.Join(dir, f.name), f.headers, f.records); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "summary CSVs written",
		slog.String("dir", dir),
		slog.Int("records", rs.Len()))
	return nil
}

func (w *CSVWriter) writeFile(path string, headers []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return cw.Error()
}

func csvHeaders(header []interface{}) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = fmt.Sprint(h)
	}
	return out
}

func csvRecords(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(row))
		for j, v := range row {
			switch t := v.(type) {
			case float64:
				rec[j] = formatFloat(t)
			case int:
				rec[j] = formatInt(t)
			default:
				rec[j] = fmt.Sprint(v)
			}
		}
		out[i] = rec
	}
	return out
}
