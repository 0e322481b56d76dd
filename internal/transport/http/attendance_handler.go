package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "shiftpulse/internal/errors"
	"shiftpulse/pkg/contracts/domain"
)

// AttendanceService is the business-layer contract the handler depends on.
type AttendanceService interface {
	Ingest(ctx context.Context, r io.Reader) (domain.IngestResult, error)
	Stats(ctx context.Context) (domain.OverallStats, error)
	Summary(ctx context.Context, grouping domain.Grouping) ([]domain.AggregateRow, error)
	Top(ctx context.Context, n int) ([]domain.AggregateRow, error)
	EmployeeDetail(ctx context.Context, employeeID string) ([]domain.AttendanceRecord, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// AttendanceHandler handles attendance HTTP requests with RFC 7807 compliance
type AttendanceHandler struct {
	service       AttendanceService
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
	maxUploadSize int64
	defaultTopN   int
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(service AttendanceService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadSize int64, defaultTopN int) *AttendanceHandler {
	return &AttendanceHandler{
		service:       service,
		logger:        logger.With(slog.String("component", "attendance_handler")),
		errorHandler:  errorHandler,
		maxUploadSize: maxUploadSize,
		defaultTopN:   defaultTopN,
	}
}

// Routes returns the attendance routes
func (h *AttendanceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/upload", h.Upload)
	r.Get("/stats", h.GetStats)
	r.Get("/summary/{grouping}", h.GetSummary)
	r.Get("/top-employees", h.GetTopEmployees)
	r.Get("/employee/{id}", h.GetEmployee)
	r.Get("/export", h.Export)

	return r
}

// UploadResponse is the success envelope for workbook uploads.
type UploadResponse struct {
	Success bool                `json:"success"`
	Result  domain.IngestResult `json:"result"`
}

// Upload handles POST /api/upload: a multipart form with the workbook under
// the "file" field.
func (h *AttendanceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if err.Error() == "http: request body too large" {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(ctx, "workbook upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	result, err := h.service.Ingest(ctx, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, UploadResponse{Success: true, Result: result})
}

// GetStats handles GET /api/stats
func (h *AttendanceHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// SummaryResponse wraps a grouped rollup.
type SummaryResponse struct {
	Grouping domain.Grouping       `json:"grouping"`
	Rows     []domain.AggregateRow `json:"rows"`
}

// GetSummary handles GET /api/summary/{grouping}
func (h *AttendanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	grouping := domain.Grouping(chi.URLParam(r, "grouping"))
	if !grouping.Valid() {
		h.errorHandler.HandleError(w, r,
			apierrors.ErrValidation("grouping", "Supported groupings are employees, month and daily"))
		return
	}

	rows, err := h.service.Summary(r.Context(), grouping)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, SummaryResponse{Grouping: grouping, Rows: rows})
}

// GetTopEmployees handles GET /api/top-employees?n=
func (h *AttendanceHandler) GetTopEmployees(w http.ResponseWriter, r *http.Request) {
	n := h.defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r,
				apierrors.ErrValidation("n", "Parameter n must be an integer"))
			return
		}
		n = parsed
	}

	rows, err := h.service.Top(r.Context(), n)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, SummaryResponse{Grouping: domain.GroupByEmployee, Rows: rows})
}

// EmployeeResponse wraps one employee's daily records.
type EmployeeResponse struct {
	EmployeeID string                    `json:"employee_id"`
	Records    []domain.AttendanceRecord `json:"records"`
}

// GetEmployee handles GET /api/employee/{id}
func (h *AttendanceHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Employee id is required"))
		return
	}

	records, err := h.service.EmployeeDetail(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, EmployeeResponse{EmployeeID: id, Records: records})
}

// Export handles GET /api/export: streams the summary workbook as an xlsx
// attachment. The workbook builds into a buffer first so failures still
// return a proper problem response instead of a truncated download.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportWorkbook(r.Context(), &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("overtime_summary_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "export stream interrupted",
			slog.String("error", err.Error()))
	}
}
