package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/exporter"
	"github.com/kevindiazor/ThePUL/internal/files"
)

// Integrator builds the five raw category tables from game files and
// persists them to the integ-data directory.
type Integrator struct {
	paths  *config.Paths
	loader *Loader
	files  *files.Manager
	logger *slog.Logger
}

// NewIntegrator creates an integrator writing below paths.IntegDir
func NewIntegrator(paths *config.Paths, logger *slog.Logger) *Integrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Integrator{
		paths:  paths,
		loader: NewLoader(logger),
		files:  files.NewManager(paths, logger),
		logger: logger.With("component", "integrator"),
	}
}

// IntegrateArchive extracts zipPath into a freshly reset extraction
// directory and integrates its contents.
func (i *Integrator) IntegrateArchive(ctx context.Context, zipPath string) (*LoadReport, error) {
	if err := i.files.ResetDirectory(i.paths.ExtractDir); err != nil {
		return nil, err
	}

	n, err := files.ExtractZip(ctx, zipPath, i.paths.ExtractDir)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", zipPath, err)
	}
	i.logger.InfoContext(ctx, "Archive extracted",
		slog.String("archive", zipPath),
		slog.Int("files", n))

	return i.IntegrateDirectory(ctx, i.paths.ExtractDir)
}

// IntegrateDirectory loads every game file below dir, concatenates each
// category and overwrites the integrated outputs as one set.
func (i *Integrator) IntegrateDirectory(ctx context.Context, dir string) (*LoadReport, error) {
	raw, report, err := i.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	set := exporter.NewAtomicSet(i.logger)
	defer set.Abort()

	for _, category := range Categories() {
		table := ConcatTables(raw.Tables[category])
		dest := filepath.Join(i.paths.IntegDir, category.FileName())
		if err := set.Stage(dest, exporter.WriteOptions{
			Headers: table.Columns,
			Records: table.Rows,
		}); err != nil {
			return nil, err
		}
		i.logger.DebugContext(ctx, "Category integrated",
			slog.String("category", category.String()),
			slog.Int("rows", table.Len()),
			slog.Int("columns", len(table.Columns)))
	}

	if err := set.Commit(); err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "Raw data integrated",
		slog.String("output_dir", i.paths.IntegDir),
		slog.Int("files_loaded", report.Loaded),
		slog.Int("files_skipped", report.Skipped))

	return report, nil
}
