package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// Canonical field names resolved by the header alias table.
const (
	fieldEmployeeID   = "employee_id"
	fieldEmployeeName = "employee_name"
	fieldWorkDate     = "work_date"
	fieldClockIn      = "clock_in"
	fieldClockOut     = "clock_out"
	fieldBreak        = "break_duration"
	fieldHoursWorked  = "hours_worked"
	fieldOvertime     = "overtime_hours"
	fieldTarget       = "target_hours"
)

// AliasTable maps canonical field names to accepted header spellings.
// Matching is case- and whitespace-insensitive and ignores '&', '_' and '-',
// so "T&A IN", "TA_IN" and "ta in" all resolve to the same field.
type AliasTable map[string][]string

// DefaultAliases covers the header variants observed across exports.
func DefaultAliases() AliasTable {
	return AliasTable{
		fieldEmployeeID:   {"PIN CODE", "EMPLOYEE ID", "EMP ID", "BADGE", "STAFF ID"},
		fieldEmployeeName: {"FULL NAME", "EMPLOYEE NAME", "NAME", "EMPLOYEE"},
		fieldWorkDate:     {"DATE", "WORK DATE", "WORKDAY"},
		fieldClockIn:      {"T&A IN", "CLOCK IN", "TIME IN", "IN"},
		fieldClockOut:     {"T&A OUT", "CLOCK OUT", "TIME OUT", "OUT"},
		fieldBreak:        {"T&A BREAK", "BREAK", "BREAK DURATION"},
		fieldHoursWorked:  {"HOURS WORKED", "WORKED HOURS", "TOTAL HOURS"},
		fieldOvertime:     {"OVERTIME HOURS", "OVERTIME", "OT HOURS", "OT"},
		fieldTarget:       {"TARGET", "TARGET HOURS"},
	}
}

// requiredFields must resolve for a sheet to be ingested at all.
var requiredFields = []string{fieldEmployeeID, fieldWorkDate}

// RawRow is one partially-typed row with normalized column names and values.
// Malformed is set when any relevant cell failed normalization; the cleaner
// rejects such rows and counts them instead of failing the upload.
type RawRow struct {
	SourceSheet  string
	SheetIndex   int
	RowIndex     int
	EmployeeID   string
	EmployeeName string
	WorkDate     time.Time
	HasDate      bool
	ClockIn      *float64
	ClockOut     *float64
	Break        *float64
	HoursWorked  *float64
	Overtime     *float64
	Target       *float64
	Malformed    bool
}

// ParsedWorkbook is the ingestor output for one uploaded workbook.
type ParsedWorkbook struct {
	Rows          []RawRow
	SourceSheets  []string
	SkippedSheets int
}

// Parser reads worksheets into normalized row sets.
type Parser struct {
	logger  *slog.Logger
	aliases AliasTable
}

// NewParser creates a sheet ingestor with the default alias table.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, aliases: DefaultAliases()}
}

// WithAliases overrides the header alias table.
func (p *Parser) WithAliases(aliases AliasTable) *Parser {
	p.aliases = aliases
	return p
}

// ParseWorkbook reads every month-named worksheet from the workbook stream.
// Sheets without a month name in their label and sheets failing schema
// validation are skipped and counted; sheet order is preserved in the output
// so downstream deduplication stays deterministic.
func (p *Parser) ParseWorkbook(ctx context.Context, r io.Reader) (*ParsedWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	type sheetInput struct {
		index int
		month string
		rows  [][]string
	}

	var (
		inputs  []sheetInput
		skipped int
	)
	for i, name := range f.GetSheetList() {
		month, ok := normalizeMonthName(name)
		if !ok {
			p.logger.InfoContext(ctx, "skipping sheet without month name",
				slog.String("sheet", name))
			skipped++
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		inputs = append(inputs, sheetInput{index: i, month: month, rows: rows})
	}

	// Sheets normalize independently; results are reassembled in sheet order.
	perSheet := make([][]RawRow, len(inputs))
	sheetErrs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := p.parseSheet(in.index, in.month, in.rows)
			if err != nil {
				sheetErrs[i] = err
				return nil
			}
			perSheet[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ParsedWorkbook{SkippedSheets: skipped}
	for i, rows := range perSheet {
		if sheetErrs[i] != nil {
			if errors.Is(sheetErrs[i], ErrSchema) {
				p.logger.WarnContext(ctx, "skipping sheet with invalid schema",
					slog.String("sheet", inputs[i].month),
					slog.String("error", sheetErrs[i].Error()))
				out.SkippedSheets++
				continue
			}
			return nil, sheetErrs[i]
		}
		out.Rows = append(out.Rows, rows...)
		out.SourceSheets = append(out.SourceSheets, inputs[i].month)
	}

	p.logger.InfoContext(ctx, "workbook parsed",
		slog.Int("sheets", len(out.SourceSheets)),
		slog.Int("skipped_sheets", out.SkippedSheets),
		slog.Int("rows", len(out.Rows)))

	return out, nil
}

// parseSheet normalizes one worksheet into RawRows.
func (p *Parser) parseSheet(sheetIndex int, month string, rows [][]string) ([]RawRow, error) {
	headerRow, columns := p.resolveColumns(rows)
	if headerRow < 0 {
		return nil, &SchemaError{Sheet: month, Missing: requiredFields}
	}

	cell := func(row []string, field string) (string, bool) {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	out := make([]RawRow, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rr := RawRow{SourceSheet: month, SheetIndex: sheetIndex, RowIndex: i}

		if v, ok := cell(row, fieldEmployeeID); ok {
			rr.EmployeeID = v
		}
		if v, ok := cell(row, fieldEmployeeName); ok {
			rr.EmployeeName = v
		}

		if v, ok := cell(row, fieldWorkDate); ok {
			date, present, err := ParseDate(v)
			if err != nil {
				rr.Malformed = true
			} else if present {
				rr.WorkDate = date
				rr.HasDate = true
			}
		}

		rr.ClockIn = normalizeTimeCell(row, cell, fieldClockIn, &rr)
		rr.ClockOut = normalizeTimeCell(row, cell, fieldClockOut, &rr)
		rr.Break = normalizeDurationCell(row, cell, fieldBreak, &rr)
		rr.HoursWorked = normalizeDurationCell(row, cell, fieldHoursWorked, &rr)
		rr.Target = normalizeDurationCell(row, cell, fieldTarget, &rr)

		if v, ok := cell(row, fieldOvertime); ok {
			hours, present, err := ParseOvertime(v)
			if err != nil {
				rr.Malformed = true
			} else if present {
				rr.Overtime = &hours
			}
		}

		out = append(out, rr)
	}

	return out, nil
}

type cellFn func(row []string, field string) (string, bool)

func normalizeTimeCell(row []string, cell cellFn, field string, rr *RawRow) *float64 {
	v, ok := cell(row, field)
	if !ok {
		return nil
	}
	hours, present, err := ParseTimeOfDay(v)
	if err != nil {
		rr.Malformed = true
		return nil
	}
	if !present {
		return nil
	}
	return &hours
}

func normalizeDurationCell(row []string, cell cellFn, field string, rr *RawRow) *float64 {
	v, ok := cell(row, field)
	if !ok {
		return nil
	}
	hours, present, err := ParseDuration(v)
	if err != nil {
		rr.Malformed = true
		return nil
	}
	if !present {
		return nil
	}
	return &hours
}

// resolveColumns locates the header row and maps canonical fields to column
// positions. The header row is the first row that resolves both required
// fields; a sheet with no such row fails schema validation as a whole.
func (p *Parser) resolveColumns(rows [][]string) (int, map[string]int) {
	lookup := make(map[string]string, len(p.aliases)*4)
	for field, spellings := range p.aliases {
		for _, s := range spellings {
			lookup[normalizeHeader(s)] = field
		}
	}

	for i, row := range rows {
		columns := make(map[string]int)
		for j, header := range row {
			key := normalizeHeader(header)
			if key == "" {
				continue
			}
			field, ok := lookup[key]
			if !ok {
				continue // unrecognized columns are ignored
			}
			if _, taken := columns[field]; !taken {
				columns[field] = j
			}
		}
		_, hasID := columns[fieldEmployeeID]
		_, hasDate := columns[fieldWorkDate]
		if hasID && hasDate {
			return i, columns
		}
	}
	return -1, nil
}

// normalizeHeader folds case and strips whitespace, '&', '_', '-' and '.'.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(h) {
		switch r {
		case ' ', '\t', '&', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// monthNames maps lowercase month tokens to canonical labels. Longer tokens
// come first so "september" resolves before the "sep" abbreviation.
var monthNames = []struct {
	token string
	label string
}{
	{"january", "January"}, {"february", "February"}, {"march", "March"},
	{"april", "April"}, {"august", "August"}, {"september", "September"},
	{"october", "October"}, {"november", "November"}, {"december", "December"},
	{"sept", "September"}, {"june", "June"}, {"july", "July"},
	{"jan", "January"}, {"feb", "February"}, {"mar", "March"},
	{"apr", "April"}, {"may", "May"}, {"jun", "June"}, {"jul", "July"},
	{"aug", "August"}, {"sep", "September"}, {"oct", "October"},
	{"nov", "November"}, {"dec", "December"},
}

// normalizeMonthName extracts a canonical month label from a sheet name.
func normalizeMonthName(sheet string) (string, bool) {
	lower := strings.ToLower(sheet)
	for _, m := range monthNames {
		if strings.Contains(lower, m.token) {
			return m.label, true
		}
	}
	return "", false
}
