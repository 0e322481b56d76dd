package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shiftpulse/internal/config"
	apierrors "shiftpulse/internal/errors"
	"shiftpulse/internal/infrastructure"
	customMiddleware "shiftpulse/internal/middleware"
	"shiftpulse/internal/services"
	handlers "shiftpulse/internal/transport/http"
)

const VERSION = "1.0.0"

// BuildTime is set at compile time via -ldflags.
var BuildTime = ""

// Application is the main application container. All components are wired
// together here at startup through constructor injection.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	OTelProviders *infrastructure.OTelProviders
	Registry      *prometheus.Registry

	AttendanceService *services.AttendanceService
	HealthService     *services.HealthService
}

// NewApplication creates a new application instance with dependency injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	providers, err := infrastructure.InitializeOTel(
		VERSION,
		cfg.Observability.EnableTracing,
		app.Registry,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	app.OTelProviders = providers

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	logger.Info("application initialized",
		slog.String("version", VERSION),
		slog.Int("port", cfg.Server.Port))

	return app, nil
}

// initializeServices wires the business services.
func (a *Application) initializeServices() {
	metrics := services.NewMetrics(a.Registry)

	attendance := services.NewAttendanceService(a.Logger, metrics)
	attendance.SetExportTopN(a.Config.Upload.TopEmployees)
	a.AttendanceService = attendance

	a.HealthService = services.NewHealthService(VERSION, BuildTime, attendance, a.Logger)
}

// setupRouter configures the HTTP router with all routes.
// Middleware ordering: RequestID → RealIP → Logger → Recoverer → headers →
// CORS → rate limit → timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())

		attendanceHandler := handlers.NewAttendanceHandler(
			a.AttendanceService,
			a.Logger,
			errorHandler,
			a.Config.Upload.MaxSizeBytes,
			a.Config.Upload.TopEmployees,
		)
		r.Mount("/", attendanceHandler.Routes())
	})

	// Metrics endpoint stays outside the API group so scrapes skip the
	// request timeout and rate limiter ordering concerns.
	r.Handle(a.Config.Observability.MetricsPath, promhttp.HandlerFor(
		a.Registry,
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))

	a.Router = r
}

// createServer builds the HTTP server from the server configuration.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until shutdown completes. SIGINT and
// SIGTERM trigger a graceful stop.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	return a.Stop()
}

// Stop gracefully shuts down the server and flushes observability providers.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.Warn("observability shutdown failed", slog.String("error", err.Error()))
		}
	}

	a.Logger.Info("server stopped")
	return nil
}
