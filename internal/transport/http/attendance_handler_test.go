package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "shiftpulse/internal/errors"
	"shiftpulse/internal/services"
	"shiftpulse/pkg/contracts/domain"
)

// stubService implements AttendanceService with canned responses.
type stubService struct {
	ingestResult domain.IngestResult
	ingestErr    error
	stats        domain.OverallStats
	statsErr     error
	rows         []domain.AggregateRow
	rowsErr      error
	records      []domain.AttendanceRecord
	recordsErr   error
	exportErr    error
	gotTopN      int
}

func (s *stubService) Ingest(ctx context.Context, r io.Reader) (domain.IngestResult, error) {
	io.Copy(io.Discard, r)
	return s.ingestResult, s.ingestErr
}

func (s *stubService) Stats(ctx context.Context) (domain.OverallStats, error) {
	return s.stats, s.statsErr
}

func (s *stubService) Summary(ctx context.Context, g domain.Grouping) ([]domain.AggregateRow, error) {
	return s.rows, s.rowsErr
}

func (s *stubService) Top(ctx context.Context, n int) ([]domain.AggregateRow, error) {
	s.gotTopN = n
	return s.rows, s.rowsErr
}

func (s *stubService) EmployeeDetail(ctx context.Context, id string) ([]domain.AttendanceRecord, error) {
	return s.records, s.recordsErr
}

func (s *stubService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	if s.exportErr != nil {
		return s.exportErr
	}
	_, err := w.Write([]byte("PK\x03\x04workbook-bytes"))
	return err
}

func newTestHandler(svc AttendanceService) *AttendanceHandler {
	errorHandler := apierrors.NewErrorHandler(slog.Default(), false)
	return NewAttendanceHandler(svc, slog.Default(), errorHandler, 1<<20, 20)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	svc := &stubService{ingestResult: domain.IngestResult{
		AcceptedRecords: 42,
		RejectedRecords: 3,
		SourceSheets:    []string{"October"},
	}}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "attendance.xlsx", []byte("stub"))
	r := httptest.NewRequest(stdhttp.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	require.Equal(t, stdhttp.StatusOK, w.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42, resp.Result.AcceptedRecords)
	assert.Equal(t, []string{"October"}, resp.Result.SourceSheets)
}

func TestUpload_MissingFileField(t *testing.T) {
	h := newTestHandler(&stubService{})

	body, contentType := multipartBody(t, "wrong_field", "attendance.xlsx", []byte("stub"))
	r := httptest.NewRequest(stdhttp.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
}

func TestUpload_EmptyWorkbookProblem(t *testing.T) {
	h := newTestHandler(&stubService{ingestErr: services.ErrNoDataLoaded})

	body, contentType := multipartBody(t, "file", "attendance.xlsx", []byte("stub"))
	r := httptest.NewRequest(stdhttp.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(&stubService{stats: domain.OverallStats{TotalRecords: 7, UniqueEmployees: 2}})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/stats", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	var stats domain.OverallStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.TotalRecords)
}

func TestGetStats_NoData(t *testing.T) {
	h := newTestHandler(&stubService{statsErr: services.ErrNoDataLoaded})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/stats", nil))

	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/errors/data/not-loaded")
}

func TestGetSummary(t *testing.T) {
	h := newTestHandler(&stubService{rows: []domain.AggregateRow{{Key: "1001", TotalOvertimeHours: 3.75}}})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/summary/employees", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.GroupByEmployee, resp.Grouping)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "1001", resp.Rows[0].Key)
}

func TestGetSummary_InvalidGrouping(t *testing.T) {
	h := newTestHandler(&stubService{})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/summary/weekly", nil))

	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
}

func TestGetTopEmployees(t *testing.T) {
	svc := &stubService{rows: []domain.AggregateRow{{Key: "1001"}}}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/top-employees?n=5", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	assert.Equal(t, 5, svc.gotTopN)
}

func TestGetTopEmployees_DefaultN(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/top-employees", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	assert.Equal(t, 20, svc.gotTopN)
}

func TestGetTopEmployees_BadN(t *testing.T) {
	h := newTestHandler(&stubService{})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/top-employees?n=lots", nil))

	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
}

func TestGetEmployee(t *testing.T) {
	h := newTestHandler(&stubService{records: []domain.AttendanceRecord{{EmployeeID: "1001"}}})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/employee/1001", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	var resp EmployeeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1001", resp.EmployeeID)
	assert.Len(t, resp.Records, 1)
}

func TestGetEmployee_NotFound(t *testing.T) {
	h := newTestHandler(&stubService{recordsErr: services.ErrEmployeeNotFound})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/employee/9999", nil))

	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/errors/data/employee-not-found")
}

func TestExport_StreamsAttachment(t *testing.T) {
	h := newTestHandler(&stubService{})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/export", nil))

	require.Equal(t, stdhttp.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExport_NoData(t *testing.T) {
	h := newTestHandler(&stubService{exportErr: services.ErrNoDataLoaded})

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, "/export", nil))

	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}
