package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/files"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
)

// StageOptions contains optional dependencies for steps
type StageOptions struct {
	Metrics *infrastructure.PipelineMetrics
}

// ExtractStage extracts the game archive and integrates its contents
type ExtractStage struct {
	BaseStage
	integrator Integrator
	logger     *slog.Logger
	options    *StageOptions
}

// NewExtractStage creates the archive extraction Step
func NewExtractStage(integrator Integrator, logger *slog.Logger, options *StageOptions) *ExtractStage {
	return &ExtractStage{
		BaseStage:  NewBaseStage(StageIDExtract, StageNameExtract),
		integrator: integrator,
		logger:     stageLogger(logger, StageIDExtract),
		options:    stageOptions(options),
	}
}

// Validate requires an archive path
func (s *ExtractStage) Validate(state *OperationState) error {
	if state.GetConfigString(ConfigKeyArchivePath) == "" {
		return NewValidationError(s.ID(), "archive path is required")
	}
	return nil
}

// Execute extracts the archive and writes the integrated raw tables
func (s *ExtractStage) Execute(ctx context.Context, state *OperationState) error {
	archive := state.GetConfigString(ConfigKeyArchivePath)

	s.logger.InfoContext(ctx, "Starting archive extraction",
		slog.String("operation_id", state.ID),
		slog.String("archive", archive))
	state.ReportProgress(s.ID(), 10, "Extracting "+archive)

	report, err := s.integrator.IntegrateArchive(ctx, archive)
	if err != nil {
		return err
	}

	recordReport(ctx, state, s.ID(), report, s.options)
	return nil
}

// DownloadStage copies the remote folder's CSV files to the download directory
type DownloadStage struct {
	BaseStage
	downloader FolderDownloader
	files      *files.Manager
	paths      *config.Paths
	logger     *slog.Logger
}

// NewDownloadStage creates the remote download Step
func NewDownloadStage(downloader FolderDownloader, paths *config.Paths, logger *slog.Logger) *DownloadStage {
	return &DownloadStage{
		BaseStage:  NewBaseStage(StageIDDownload, StageNameDownload),
		downloader: downloader,
		files:      files.NewManager(paths, logger),
		paths:      paths,
		logger:     stageLogger(logger, StageIDDownload),
	}
}

// Validate requires a folder ID and a configured downloader
func (s *DownloadStage) Validate(state *OperationState) error {
	if state.GetConfigString(ConfigKeyFolderID) == "" {
		return NewValidationError(s.ID(), "remote folder ID is required")
	}
	if s.downloader == nil {
		return NewValidationError(s.ID(), "no remote downloader configured")
	}
	return nil
}

// Execute replaces the download directory with the remote folder's files
func (s *DownloadStage) Execute(ctx context.Context, state *OperationState) error {
	folderID := state.GetConfigString(ConfigKeyFolderID)
	dir := s.paths.DownloadDir

	if err := s.files.ResetDirectory(dir); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Starting remote download",
		slog.String("operation_id", state.ID),
		slog.String("folder_id", folderID),
		slog.String("download_dir", dir))
	state.ReportProgress(s.ID(), 10, "Listing remote folder")

	downloaded, err := s.downloader.DownloadFolder(ctx, folderID, dir)
	if err != nil {
		return fmt.Errorf("download folder %s: %w", folderID, err)
	}

	state.SetContext(ContextKeyDownloadDir, dir)
	state.SetContext(ContextKeyDownloaded, downloaded)
	if step := state.GetStage(s.ID()); step != nil {
		step.SetMetadata("files", len(downloaded))
		step.UpdateProgress(100, fmt.Sprintf("%d files downloaded", len(downloaded)))
	}
	return nil
}

// IntegrateStage integrates an already populated directory
type IntegrateStage struct {
	BaseStage
	integrator Integrator
	logger     *slog.Logger
	options    *StageOptions
}

// NewIntegrateStage creates the directory integration Step
func NewIntegrateStage(integrator Integrator, logger *slog.Logger, options *StageOptions) *IntegrateStage {
	return &IntegrateStage{
		BaseStage:  NewBaseStage(StageIDIntegrate, StageNameIntegrate),
		integrator: integrator,
		logger:     stageLogger(logger, StageIDIntegrate),
		options:    stageOptions(options),
	}
}

// Validate requires the download directory from an earlier step
func (s *IntegrateStage) Validate(state *OperationState) error {
	if _, ok := state.GetContext(ContextKeyDownloadDir); !ok {
		return NewValidationError(s.ID(), "no download directory from a previous step")
	}
	return nil
}

// Execute writes the integrated raw tables from the download directory
func (s *IntegrateStage) Execute(ctx context.Context, state *OperationState) error {
	v, _ := state.GetContext(ContextKeyDownloadDir)
	dir, _ := v.(string)

	s.logger.InfoContext(ctx, "Starting integration",
		slog.String("operation_id", state.ID),
		slog.String("dir", dir))
	state.ReportProgress(s.ID(), 10, "Loading game files")

	report, err := s.integrator.IntegrateDirectory(ctx, dir)
	if err != nil {
		return err
	}

	recordReport(ctx, state, s.ID(), report, s.options)
	return nil
}

// AggregateStage computes and writes the season statistics
type AggregateStage struct {
	BaseStage
	aggregator Aggregator
	logger     *slog.Logger
}

// NewAggregateStage creates the statistics Step
func NewAggregateStage(aggregator Aggregator, logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage:  NewBaseStage(StageIDAggregate, StageNameAggregate),
		aggregator: aggregator,
		logger:     stageLogger(logger, StageIDAggregate),
	}
}

// Execute aggregates the integrated data and stores the season for the caller
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	state.ReportProgress(s.ID(), 10, "Computing statistics")

	season, err := s.aggregator.Run(ctx)
	if err != nil {
		return err
	}
	season.RunID = state.ID
	state.SetContext(ContextKeySeason, season)

	if step := state.GetStage(s.ID()); step != nil {
		step.SetMetadata("teams", len(season.Teams))
		step.SetMetadata("players", len(season.Players))
		step.UpdateProgress(100, fmt.Sprintf("%d teams, %d players", len(season.Teams), len(season.Players)))
	}

	s.logger.InfoContext(ctx, "Statistics aggregated",
		slog.String("operation_id", state.ID),
		slog.Int("teams", len(season.Teams)),
		slog.Int("players", len(season.Players)))
	return nil
}

func recordReport(ctx context.Context, state *OperationState, stepID string, report *dataprocessing.LoadReport, options *StageOptions) {
	state.SetContext(ContextKeyLoadReport, report)
	options.Metrics.RecordFiles(ctx, report.Loaded, report.Skipped)

	if step := state.GetStage(stepID); step != nil {
		step.SetMetadata("files_loaded", report.Loaded)
		step.SetMetadata("files_skipped", report.Skipped)
		step.UpdateProgress(100, fmt.Sprintf("%d files loaded, %d skipped", report.Loaded, report.Skipped))
	}
}

func stageLogger(logger *slog.Logger, stepID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stepID))
}

func stageOptions(options *StageOptions) *StageOptions {
	if options == nil {
		return &StageOptions{}
	}
	return options
}

// PipelineDeps are the collaborators of the standard pipelines
type PipelineDeps struct {
	Paths      *config.Paths
	Integrator Integrator
	Aggregator Aggregator
	Downloader FolderDownloader
	Logger     *slog.Logger
	Options    *StageOptions
}

// NewPipelineRegistry registers every step and defines the archive and
// remote pipelines
func NewPipelineRegistry(deps PipelineDeps) (*Registry, error) {
	r := NewRegistry()
	steps := []Step{
		NewExtractStage(deps.Integrator, deps.Logger, deps.Options),
		NewDownloadStage(deps.Downloader, deps.Paths, deps.Logger),
		NewIntegrateStage(deps.Integrator, deps.Logger, deps.Options),
		NewAggregateStage(deps.Aggregator, deps.Logger),
	}
	for _, step := range steps {
		if err := r.Register(step); err != nil {
			return nil, err
		}
	}

	if err := r.DefinePipeline(StrategyArchive, StageIDExtract, StageIDAggregate); err != nil {
		return nil, err
	}
	if err := r.DefinePipeline(StrategyRemote, StageIDDownload, StageIDIntegrate, StageIDAggregate); err != nil {
		return nil, err
	}
	return r, nil
}
