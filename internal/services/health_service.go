package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService reports process liveness and dataset state.
type HealthService struct {
	version   string
	buildTime string
	startTime time.Time
	reader    AttendanceReader
	logger    *slog.Logger
}

// HealthStatus is the health check response contract.
type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	BuildTime  string    `json:"build_time,omitempty"`
	Uptime     string    `json:"uptime"`
	DataLoaded bool      `json:"data_loaded"`
	GoVersion  string    `json:"go_version"`
	Goroutines int       `json:"goroutines"`
}

// NewHealthService creates a health service bound to the attendance reader.
func NewHealthService(version, buildTime string, reader AttendanceReader, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		reader:    reader,
		logger:    logger,
	}
}

// Check returns the current health snapshot. The service is healthy whenever
// the process responds; an empty dataset is a normal pre-upload state.
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Version:    h.version,
		BuildTime:  h.buildTime,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
	}
	if h.reader != nil {
		status.DataLoaded = h.reader.Loaded()
	}

	h.logger.DebugContext(ctx, "health check",
		slog.Bool("data_loaded", status.DataLoaded))
	return status
}
