package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"shiftpulse/pkg/contracts/domain"
)

// suspiciousOvertimeHours is the threshold above which a parsed overtime
// value is treated as an Excel wrap artifact and recomputed from hours
// worked against target. Negative values are always preserved.
const suspiciousOvertimeHours = 12.0

// anomalyHoursWorked flags a single-day hours-worked reading that cannot be
// real. The value is counted, not mutated, so aggregation stays additive.
const anomalyHoursWorked = 24.0

// Cleaner turns ingested rows into the canonical RecordSet.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a record cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean filters, coerces and deduplicates the concatenated sheet rows.
//
// Rows with a malformed cell, an empty employee id or a missing work date are
// rejected and counted. Duplicates on (employee id, work date) keep the last
// occurrence in sheet/row order. Cleaning the same input twice yields an
// identical RecordSet.
func (c *Cleaner) Clean(ctx context.Context, parsed *ParsedWorkbook) (*domain.RecordSet, error) {
	type keyed struct {
		record domain.AttendanceRecord
	}

	canonical := make(map[string]keyed, len(parsed.Rows))
	rejected := 0
	anomalies := 0

	for _, row := range parsed.Rows {
		if row.Malformed || row.EmployeeID == "" || !row.HasDate {
			rejected++
			continue
		}

		rec := domain.AttendanceRecord{
			EmployeeID:    row.EmployeeID,
			EmployeeName:  row.EmployeeName,
			WorkDate:      row.WorkDate,
			ClockIn:       row.ClockIn,
			ClockOut:      row.ClockOut,
			BreakDuration: deref(row.Break),
			HoursWorked:   deref(row.HoursWorked),
			TargetHours:   deref(row.Target),
			SourceSheet:   row.SourceSheet,
		}

		// Overtime missing or implausibly high falls back to the value
		// implied by hours worked against target. Shortfalls stay negative.
		computed := rec.HoursWorked - rec.TargetHours
		switch {
		case row.Overtime == nil:
			rec.OvertimeHours = computed
		case *row.Overtime > suspiciousOvertimeHours:
			rec.OvertimeHours = computed
		default:
			rec.OvertimeHours = *row.Overtime
		}

		if rec.HoursWorked > anomalyHoursWorked {
			anomalies++
		}

		// Last occurrence wins.
		canonical[rec.EmployeeID+"\x00"+rec.WorkDate.Format("2006-01-02")] = keyed{record: rec}
	}

	if len(canonical) == 0 {
		return nil, ErrEmptyResult
	}

	records := make([]domain.AttendanceRecord, 0, len(canonical))
	for _, k := range canonical {
		records = append(records, k.record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].EmployeeID != records[j].EmployeeID {
			return records[i].EmployeeID < records[j].EmployeeID
		}
		return records[i].WorkDate.Before(records[j].WorkDate)
	})

	rs := &domain.RecordSet{
		Records: records,
		Counters: domain.IngestCounters{
			AcceptedRecords: len(records),
			RejectedRecords: rejected,
			SkippedSheets:   parsed.SkippedSheets,
			Anomalies:       anomalies,
		},
		LoadedAt: time.Now().UTC(),
	}

	c.logger.InfoContext(ctx, "record set cleaned",
		slog.Int("accepted", rs.Counters.AcceptedRecords),
		slog.Int("rejected", rs.Counters.RejectedRecords),
		slog.Int("skipped_sheets", rs.Counters.SkippedSheets),
		slog.Int("anomalies", rs.Counters.Anomalies))

	return rs, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
