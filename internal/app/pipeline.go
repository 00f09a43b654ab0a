package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/internal/remote"
)

// PipelineComponents are the shared dependencies of a pipeline manager
type PipelineComponents struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Metrics   *infrastructure.PipelineMetrics

	// Downloader overrides the Drive-backed downloader built from config
	Downloader operations.FolderDownloader
}

// NewPipelineManager wires integrator, calculator and downloader into an
// operations manager. Progress goes to every reporter.
func NewPipelineManager(ctx context.Context, c PipelineComponents, reporters ...operations.ProgressReporter) (*operations.Manager, error) {
	logger := c.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	downloader := c.Downloader
	if downloader == nil && needsRemote(c.Config) {
		d, err := remote.NewFromConfig(ctx, c.Config.Remote, c.Config.Pipeline.Recursive, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create remote downloader: %w", err)
		}
		downloader = d
	}

	registry, err := operations.NewPipelineRegistry(operations.PipelineDeps{
		Paths:      c.Paths,
		Integrator: dataprocessing.NewIntegrator(c.Paths, logger),
		Aggregator: dataprocessing.NewCalculator(c.Paths, logger,
			dataprocessing.WithWorkbook(c.Config.Pipeline.ExportWorkbook)),
		Downloader: downloader,
		Logger:     logger,
		Options:    &operations.StageOptions{Metrics: c.Metrics},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline registry: %w", err)
	}

	return operations.NewManager(registry, logger,
		operations.WithTracer(operations.NewOperationTracer(c.Providers, c.Metrics)),
		operations.WithBroadcaster(operations.NewStatusBroadcaster(logger, reporters...)),
	), nil
}

// needsRemote reports whether a Drive client should be built. A server
// configured for archives still gets one when credentials are present.
func needsRemote(cfg *config.Config) bool {
	if cfg.Pipeline.Source == string(operations.StrategyRemote) {
		return true
	}
	return cfg.Remote.CredentialsFile != "" || cfg.Remote.APIKey != ""
}

// PipelineRequest translates the pipeline section of the config into a run
// request
func PipelineRequest(cfg config.PipelineConfig) (operations.Request, error) {
	switch operations.Strategy(cfg.Source) {
	case operations.StrategyArchive:
		if cfg.ArchivePath == "" {
			return operations.Request{}, fmt.Errorf("archive path is required")
		}
		return operations.Request{Strategy: operations.StrategyArchive, ArchivePath: cfg.ArchivePath}, nil
	case operations.StrategyRemote:
		if cfg.RemoteFolder == "" {
			return operations.Request{}, fmt.Errorf("remote folder id is required")
		}
		return operations.Request{Strategy: operations.StrategyRemote, FolderID: cfg.RemoteFolder}, nil
	default:
		return operations.Request{}, fmt.Errorf("unknown pipeline source %q", cfg.Source)
	}
}
