package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftpulse/internal/config"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := config.Default()

	a := &Application{
		Config:   &cfg,
		Logger:   slog.Default(),
		Registry: prometheus.NewRegistry(),
	}
	a.initializeServices()
	a.setupRouter()
	a.createServer()
	return a
}

func TestRouter_HealthEndpoint(t *testing.T) {
	a := newTestApplication(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	a := newTestApplication(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_StatsBeforeUpload(t *testing.T) {
	a := newTestApplication(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/errors/data/not-loaded")
}

func TestRouter_UnknownRouteProblem(t *testing.T) {
	a := newTestApplication(t)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
}

func TestCreateServer_UsesConfiguredTimeouts(t *testing.T) {
	a := newTestApplication(t)

	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Equal(t, a.Config.Server.ReadTimeout, a.Server.ReadTimeout)
	assert.Equal(t, a.Config.Server.WriteTimeout, a.Server.WriteTimeout)
}
