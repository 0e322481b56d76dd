package services

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shiftpulse/internal/dataprocessing"
	"shiftpulse/internal/exporter"
	"shiftpulse/pkg/contracts/domain"
)

// AttendanceReader is the read-side contract consumed by the HTTP handlers.
type AttendanceReader interface {
	Stats(ctx context.Context) (domain.OverallStats, error)
	Summary(ctx context.Context, grouping domain.Grouping) ([]domain.AggregateRow, error)
	Top(ctx context.Context, n int) ([]domain.AggregateRow, error)
	EmployeeDetail(ctx context.Context, employeeID string) ([]domain.AttendanceRecord, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
	Loaded() bool
}

// AttendanceService owns the current RecordSet and runs the ingest pipeline.
// The set is swapped atomically on successful upload; readers always see
// either the previous complete set or the new one, never a partial state.
type AttendanceService struct {
	logger   *slog.Logger
	parser   *dataprocessing.Parser
	cleaner  *dataprocessing.Cleaner
	workbook *exporter.WorkbookBuilder
	metrics  *Metrics
	tracer   trace.Tracer

	current atomic.Pointer[domain.RecordSet]
}

// NewAttendanceService creates the service with its pipeline components.
// metrics may be nil when instrumentation is not wanted (tests, CLI).
func NewAttendanceService(logger *slog.Logger, metrics *Metrics) *AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceService{
		logger:   logger,
		parser:   dataprocessing.NewParser(logger),
		cleaner:  dataprocessing.NewCleaner(logger),
		workbook: exporter.NewWorkbookBuilder(logger),
		metrics:  metrics,
		tracer:   otel.Tracer("shiftpulse/services"),
	}
}

// SetExportTopN overrides the Top Employees sheet size used by workbook
// exports. Call before the service starts handling requests.
func (s *AttendanceService) SetExportTopN(n int) {
	s.workbook = s.workbook.WithTopN(n)
}

// Ingest parses and cleans an uploaded workbook stream and installs the
// resulting RecordSet as current. When cleaning yields zero valid records the
// previous set stays installed and the error is returned.
func (s *AttendanceService) Ingest(ctx context.Context, r io.Reader) (domain.IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.ingest")
	defer span.End()
	start := time.Now()

	parsed, err := s.parser.ParseWorkbook(ctx, r)
	if err != nil {
		s.countUpload("parse_error")
		return domain.IngestResult{}, err
	}

	rs, err := s.cleaner.Clean(ctx, parsed)
	if err != nil {
		s.countUpload("rejected")
		return domain.IngestResult{}, err
	}

	s.current.Store(rs)

	result := domain.IngestResult{
		AcceptedRecords: rs.Counters.AcceptedRecords,
		RejectedRecords: rs.Counters.RejectedRecords,
		SkippedSheets:   rs.Counters.SkippedSheets,
		Anomalies:       rs.Counters.Anomalies,
		SourceSheets:    parsed.SourceSheets,
	}

	span.SetAttributes(
		attribute.Int("ingest.accepted", result.AcceptedRecords),
		attribute.Int("ingest.rejected", result.RejectedRecords),
	)
	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues("ok").Inc()
		s.metrics.RecordsAccepted.Add(float64(result.AcceptedRecords))
		s.metrics.RecordsRejected.Add(float64(result.RejectedRecords))
		s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.InfoContext(ctx, "workbook ingested",
		slog.Int("accepted", result.AcceptedRecords),
		slog.Int("rejected", result.RejectedRecords),
		slog.Int("skipped_sheets", result.SkippedSheets),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// Loaded reports whether a RecordSet is currently installed.
func (s *AttendanceService) Loaded() bool {
	return s.current.Load() != nil
}

// Stats returns the overall statistics of the current RecordSet.
func (s *AttendanceService) Stats(ctx context.Context) (domain.OverallStats, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.stats")
	defer span.End()
	_ = ctx

	rs := s.current.Load()
	if rs == nil {
		return domain.OverallStats{}, ErrNoDataLoaded
	}
	return dataprocessing.Overall(rs), nil
}

// Summary returns the grouped rollup for the requested view.
func (s *AttendanceService) Summary(ctx context.Context, grouping domain.Grouping) ([]domain.AggregateRow, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.summary",
		trace.WithAttributes(attribute.String("grouping", string(grouping))))
	defer span.End()
	_ = ctx

	rs := s.current.Load()
	if rs == nil {
		return nil, ErrNoDataLoaded
	}
	switch grouping {
	case domain.GroupByEmployee:
		return dataprocessing.ByEmployee(rs), nil
	case domain.GroupByMonth:
		return dataprocessing.ByMonth(rs), nil
	case domain.GroupByDay:
		return dataprocessing.ByDay(rs), nil
	default:
		return nil, ErrInvalidGrouping
	}
}

// Top returns the n highest-overtime employees.
func (s *AttendanceService) Top(ctx context.Context, n int) ([]domain.AggregateRow, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.top",
		trace.WithAttributes(attribute.Int("n", n)))
	defer span.End()
	_ = ctx

	rs := s.current.Load()
	if rs == nil {
		return nil, ErrNoDataLoaded
	}
	return dataprocessing.TopN(rs, n), nil
}

// EmployeeDetail returns the per-day records of one employee.
func (s *AttendanceService) EmployeeDetail(ctx context.Context, employeeID string) ([]domain.AttendanceRecord, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.employee_detail")
	defer span.End()
	_ = ctx

	rs := s.current.Load()
	if rs == nil {
		return nil, ErrNoDataLoaded
	}
	records, ok := dataprocessing.EmployeeDetail(rs, employeeID)
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return records, nil
}

// ExportWorkbook streams the summary workbook for the current RecordSet.
func (s *AttendanceService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "attendance.export_workbook")
	defer span.End()

	rs := s.current.Load()
	if rs == nil {
		return ErrNoDataLoaded
	}
	if s.metrics != nil {
		s.metrics.ExportsTotal.WithLabelValues("xlsx").Inc()
	}
	return s.workbook.Write(ctx, w, rs)
}

func (s *AttendanceService) countUpload(outcome string) {
	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues(outcome).Inc()
	}
}
