package dataprocessing

import (
	"sort"

	"shiftpulse/pkg/contracts/domain"
)

// kahanSum accumulates float64 values with compensated summation so repeated
// aggregation of the same RecordSet is bit-for-bit reproducible regardless of
// magnitude spread.
type kahanSum struct {
	sum float64
	c   float64
}

func (k *kahanSum) add(v float64) {
	y := v - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *kahanSum) value() float64 { return k.sum }

type bucket struct {
	name      string
	overtime  kahanSum
	worked    kahanSum
	records   int
	dates     map[string]struct{}
	employees map[string]struct{}
}

func newBucket() *bucket {
	return &bucket{
		dates:     make(map[string]struct{}),
		employees: make(map[string]struct{}),
	}
}

// ByEmployee groups the RecordSet by employee id. Output ordering is
// ascending by employee id; use TopN for rankings.
func ByEmployee(rs *domain.RecordSet) []domain.AggregateRow {
	buckets := make(map[string]*bucket)
	for _, rec := range rs.Records {
		b, ok := buckets[rec.EmployeeID]
		if !ok {
			b = newBucket()
			buckets[rec.EmployeeID] = b
		}
		b.name = rec.EmployeeName
		b.overtime.add(rec.OvertimeHours)
		b.worked.add(rec.HoursWorked)
		b.records++
		b.dates[rec.WorkDate.Format("2006-01-02")] = struct{}{}
	}

	rows := make([]domain.AggregateRow, 0, len(buckets))
	for id, b := range buckets {
		row := newAggregateRow(id, b)
		row.EmployeeName = b.name
		row.DaysWorked = len(b.dates)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// ByMonth groups by the calendar month of the work date, not the source
// sheet, so a sheet spanning a month boundary still attributes correctly.
func ByMonth(rs *domain.RecordSet) []domain.AggregateRow {
	buckets := make(map[string]*bucket)
	for _, rec := range rs.Records {
		key := rec.WorkDate.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = newBucket()
			buckets[key] = b
		}
		b.overtime.add(rec.OvertimeHours)
		b.worked.add(rec.HoursWorked)
		b.records++
		b.employees[rec.EmployeeID] = struct{}{}
	}

	rows := make([]domain.AggregateRow, 0, len(buckets))
	for key, b := range buckets {
		row := newAggregateRow(key, b)
		row.UniqueEmployees = len(b.employees)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// ByDay groups by work date for trend charting, ascending by date.
func ByDay(rs *domain.RecordSet) []domain.AggregateRow {
	buckets := make(map[string]*bucket)
	for _, rec := range rs.Records {
		key := rec.WorkDate.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = newBucket()
			buckets[key] = b
		}
		b.overtime.add(rec.OvertimeHours)
		b.worked.add(rec.HoursWorked)
		b.records++
		b.employees[rec.EmployeeID] = struct{}{}
	}

	rows := make([]domain.AggregateRow, 0, len(buckets))
	for key, b := range buckets {
		row := newAggregateRow(key, b)
		row.UniqueEmployees = len(b.employees)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// TopN ranks employees by total overtime descending, ties broken by employee
// id ascending. n <= 0 returns an empty slice; n beyond the employee count
// returns the full ranking. Never an error.
func TopN(rs *domain.RecordSet, n int) []domain.AggregateRow {
	if n <= 0 {
		return []domain.AggregateRow{}
	}
	rows := ByEmployee(rs)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalOvertimeHours != rows[j].TotalOvertimeHours {
			return rows[i].TotalOvertimeHours > rows[j].TotalOvertimeHours
		}
		return rows[i].Key < rows[j].Key
	})
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Overall computes workbook-wide statistics. Average overtime per record is
// zero for an empty set rather than a division fault.
func Overall(rs *domain.RecordSet) domain.OverallStats {
	var overtime, worked kahanSum
	employees := make(map[string]struct{})
	for _, rec := range rs.Records {
		overtime.add(rec.OvertimeHours)
		worked.add(rec.HoursWorked)
		employees[rec.EmployeeID] = struct{}{}
	}

	stats := domain.OverallStats{
		TotalOvertimeHours: overtime.value(),
		TotalHoursWorked:   worked.value(),
		UniqueEmployees:    len(employees),
		TotalRecords:       len(rs.Records),
	}
	if stats.TotalRecords > 0 {
		stats.AverageOvertimePerRecord = stats.TotalOvertimeHours / float64(stats.TotalRecords)
	}

	stats.TotalOvertimeHHMMSS = FormatHHMMSS(stats.TotalOvertimeHours)
	stats.TotalOvertimeDDHHMMSS = mustFormatDDHHMMSS(stats.TotalOvertimeHours)
	stats.AverageOvertimeHHMMSS = FormatHHMMSS(stats.AverageOvertimePerRecord)
	stats.AverageOvertimeDDHHMMSS = mustFormatDDHHMMSS(stats.AverageOvertimePerRecord)
	return stats
}

// EmployeeDetail returns the records for one employee, date ascending.
// The boolean is false when the employee does not appear in the set.
func EmployeeDetail(rs *domain.RecordSet, employeeID string) ([]domain.AttendanceRecord, bool) {
	var out []domain.AttendanceRecord
	for _, rec := range rs.Records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, true
}

// newAggregateRow fills the shared aggregate fields and their formatted
// duration renditions.
func newAggregateRow(key string, b *bucket) domain.AggregateRow {
	total := b.overtime.value()
	avg := 0.0
	if b.records > 0 {
		avg = total / float64(b.records)
	}
	return domain.AggregateRow{
		Key:                 key,
		TotalOvertimeHours:  total,
		AvgOvertimeHours:    avg,
		TotalHoursWorked:    b.worked.value(),
		Records:             b.records,
		TotalOvertimeHHMMSS: FormatHHMMSS(total),
		TotalOvertimeDDHHMM: mustFormatDDHHMMSS(total),
		AvgOvertimeHHMMSS:   FormatHHMMSS(avg),
		AvgOvertimeDDHHMM:   mustFormatDDHHMMSS(avg),
	}
}
