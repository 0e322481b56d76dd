// Package services holds the business layer between the HTTP transport and
// the processing engine. AttendanceService owns the in-memory RecordSet and
// exposes ingest, rollup and export operations; HealthService reports process
// state. Services log with slog, trace with OpenTelemetry and count with
// Prometheus; handlers stay thin.
package services
