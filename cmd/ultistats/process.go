package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kevindiazor/ThePUL/internal/app"
	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/internal/operations"
)

type processOptions struct {
	zip       string
	remote    string
	recursive bool
	workbook  bool
}

// apply overlays the command line onto the pipeline config. A remote
// folder wins over an archive.
func (o processOptions) apply(cfg *config.Config) {
	switch {
	case o.remote != "":
		cfg.Pipeline.Source = string(operations.StrategyRemote)
		cfg.Pipeline.RemoteFolder = o.remote
	case o.zip != "":
		cfg.Pipeline.Source = string(operations.StrategyArchive)
		cfg.Pipeline.ArchivePath = o.zip
	}
	if o.recursive {
		cfg.Pipeline.Recursive = true
	}
	if o.workbook {
		cfg.Pipeline.ExportWorkbook = true
	}
}

func processCmd(root *rootOptions) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the pipeline once and write the statistics tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			opts.apply(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runProcess(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.zip, "zip", "", "game-day archive to process (default "+config.DefaultArchiveName+")")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "Google Drive folder id to download instead of an archive")
	cmd.Flags().BoolVar(&opts.recursive, "recursive", false, "descend into subfolders of the remote folder")
	cmd.Flags().BoolVar(&opts.workbook, "workbook", false, "also write an .xlsx workbook of the tables")
	return cmd
}

// runProcess executes one pipeline run. Progress lines go to out, logs to
// logOut. The run's error is returned so the process exits non-zero.
func runProcess(ctx context.Context, cfg *config.Config, out, logOut io.Writer) error {
	logger := infrastructure.WithComponent(infrastructure.NewLogger(logOut, cfg.Logging.Level), "cli")

	paths, err := cfg.Paths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	req, err := app.PipelineRequest(cfg.Pipeline)
	if err != nil {
		return err
	}

	manager, err := app.NewPipelineManager(ctx, app.PipelineComponents{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Providers: providers,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}
	manager.GetBroadcaster().AddReporter(operations.NewConsoleReporter(out))

	result, err := manager.Run(ctx, req)
	fmt.Fprintln(out, result.Describe())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tables written to %s\n", paths.StatsDir)
	return nil
}
