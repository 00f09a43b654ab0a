package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/internal/services"
	ws "github.com/kevindiazor/ThePUL/internal/websocket"
)

// Application is the statistics server container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	WebSocketHub  *ws.Hub
	Manager       *operations.Manager
	SeasonService *services.SeasonService
	HealthService *services.HealthService

	Router *chi.Mux
	Server *http.Server
}

// Option customizes the application before services are built
type Option func(*Application, *PipelineComponents)

// WithDownloader replaces the Drive-backed downloader
func WithDownloader(d operations.FolderDownloader) Option {
	return func(_ *Application, c *PipelineComponents) {
		c.Downloader = d
	}
}

// WithProviders reuses already initialized telemetry providers
func WithProviders(p *infrastructure.OTelProviders) Option {
	return func(a *Application, _ *PipelineComponents) {
		a.OTelProviders = p
	}
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := cfg.Paths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	a := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}
	components := PipelineComponents{Config: cfg, Paths: paths, Logger: logger}
	for _, opt := range opts {
		opt(a, &components)
	}

	if a.OTelProviders == nil {
		providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
		}
		a.OTelProviders = providers
	}
	metrics, err := infrastructure.NewPipelineMetrics(a.OTelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	a.Metrics = metrics

	components.Providers = a.OTelProviders
	components.Metrics = metrics
	if err := a.initializeServices(ctx, components); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices builds the hub, the pipeline manager and the services
func (a *Application) initializeServices(ctx context.Context, components PipelineComponents) error {
	a.WebSocketHub = ws.NewHub(a.Logger)

	manager, err := NewPipelineManager(ctx, components, operations.NewHubReporter(a.WebSocketHub))
	if err != nil {
		return err
	}
	a.Manager = manager

	seasonOpts := []services.SeasonOption{
		services.WithCacheTTL(a.Config.Server.CacheTTL),
		services.WithMetrics(a.Metrics),
	}
	if req, err := PipelineRequest(a.Config.Pipeline); err != nil {
		a.Logger.WarnContext(ctx, "refresh disabled, serving statistics from disk",
			slog.String("reason", err.Error()))
	} else {
		seasonOpts = append(seasonOpts, services.WithRunner(manager, req))
	}
	a.SeasonService = services.NewSeasonService(a.Paths, a.Logger, seasonOpts...)

	a.HealthService = services.NewHealthService(config.AppVersion, a.Paths, a.SeasonService, a.WebSocketHub, a.Logger)
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Start starts the hub and begins serving on ln, or on the configured
// address when ln is nil. Serve errors cancel the context via cancel.
func (a *Application) Start(ctx context.Context, ln net.Listener, cancel context.CancelFunc) error {
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
		}
	}

	a.WebSocketHub.Start()

	a.Logger.InfoContext(ctx, "Starting server",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", ln.Addr().String()),
		slog.String("pipeline_source", a.Config.Pipeline.Source),
		slog.Duration("cache_ttl", a.Config.Server.CacheTTL))

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Warm the cache so the first request does not pay for a pipeline run
	go func() {
		warmCtx := infrastructure.EnsureTraceID(context.WithoutCancel(ctx))
		if _, err := a.SeasonService.Season(warmCtx); err != nil {
			a.Logger.WarnContext(warmCtx, "Initial season load failed", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Shutdown complete")
	return errors.Join(errs...)
}

// Run serves until SIGINT/SIGTERM or ctx is cancelled, then shuts down
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, nil, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.WithoutCancel(ctx))
}
