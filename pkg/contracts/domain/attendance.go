package domain

import (
	"time"
)

// AttendanceRecord is the canonical unit of time-and-attendance data after
// cleaning. EmployeeID and WorkDate together form the natural key; duplicates
// are resolved during cleaning (last occurrence in sheet/row order wins).
type AttendanceRecord struct {
	EmployeeID    string    `json:"employee_id" validate:"required"`
	EmployeeName  string    `json:"employee_name"`
	WorkDate      time.Time `json:"work_date"`
	ClockIn       *float64  `json:"clock_in,omitempty"`
	ClockOut      *float64  `json:"clock_out,omitempty"`
	BreakDuration float64   `json:"break_duration"`
	HoursWorked   float64   `json:"hours_worked"`
	OvertimeHours float64   `json:"overtime_hours"`
	TargetHours   float64   `json:"target_hours"`
	SourceSheet   string    `json:"source_sheet"`
}

// RecordSet is the cleaned, canonical collection for one uploaded workbook.
// It is immutable once built and replaced wholesale on each successful upload.
type RecordSet struct {
	Records  []AttendanceRecord `json:"records"`
	Counters IngestCounters     `json:"counters"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// Len returns the number of canonical records.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// IngestCounters reports what happened to the raw input during ingestion and
// cleaning so silent data loss is never possible.
type IngestCounters struct {
	AcceptedRecords int `json:"accepted_records"`
	RejectedRecords int `json:"rejected_records"`
	SkippedSheets   int `json:"skipped_sheets"`
	Anomalies       int `json:"anomalies"`
}

// IngestResult is the response contract for a workbook upload.
type IngestResult struct {
	AcceptedRecords int      `json:"accepted_records"`
	RejectedRecords int      `json:"rejected_records"`
	SkippedSheets   int      `json:"skipped_sheets"`
	Anomalies       int      `json:"anomalies"`
	SourceSheets    []string `json:"source_sheets"`
}

// AggregateRow is one grouped summary row. Key holds the grouping value:
// an employee id, a calendar month ("2006-01"), or a work date ("2006-01-02").
// DaysWorked is populated for the employee grouping, UniqueEmployees for the
// month and day groupings.
type AggregateRow struct {
	Key                 string  `json:"key"`
	EmployeeName        string  `json:"employee_name,omitempty"`
	TotalOvertimeHours  float64 `json:"total_overtime_hours"`
	AvgOvertimeHours    float64 `json:"avg_overtime_hours"`
	TotalHoursWorked    float64 `json:"total_hours_worked"`
	Records             int     `json:"records"`
	DaysWorked          int     `json:"days_worked,omitempty"`
	UniqueEmployees     int     `json:"unique_employees,omitempty"`
	TotalOvertimeHHMMSS string  `json:"total_overtime_hhmmss"`
	TotalOvertimeDDHHMM string  `json:"total_overtime_ddhhmmss"`
	AvgOvertimeHHMMSS   string  `json:"avg_overtime_hhmmss"`
	AvgOvertimeDDHHMM   string  `json:"avg_overtime_ddhhmmss"`
}

// OverallStats summarizes the whole current RecordSet.
type OverallStats struct {
	TotalOvertimeHours       float64 `json:"total_overtime_hours"`
	TotalOvertimeHHMMSS      string  `json:"total_overtime_hhmmss"`
	TotalOvertimeDDHHMMSS    string  `json:"total_overtime_ddhhmmss"`
	TotalHoursWorked         float64 `json:"total_hours_worked"`
	UniqueEmployees          int     `json:"unique_employees"`
	TotalRecords             int     `json:"total_records"`
	AverageOvertimePerRecord float64 `json:"average_overtime_per_record"`
	AverageOvertimeHHMMSS    string  `json:"average_overtime_hhmmss"`
	AverageOvertimeDDHHMMSS  string  `json:"average_overtime_ddhhmmss"`
}

// Grouping identifies an aggregate view of the RecordSet.
type Grouping string

const (
	GroupByEmployee Grouping = "employees"
	GroupByMonth    Grouping = "month"
	GroupByDay      Grouping = "daily"
)

// Valid reports whether g names a supported grouping.
func (g Grouping) Valid() bool {
	switch g {
	case GroupByEmployee, GroupByMonth, GroupByDay:
		return true
	}
	return false
}
