package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kevindiazor/ThePUL/internal/files"
)

// LoadReport summarizes one directory scan
type LoadReport struct {
	FilesSeen    int              `json:"files_seen"`
	Loaded       int              `json:"loaded"`
	Skipped      int              `json:"skipped"`
	Unclassified int              `json:"unclassified"`
	Rows         map[Category]int `json:"rows"`
	Failures     []FileFailure    `json:"failures,omitempty"`
}

// FileFailure records why a file was skipped
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RawData holds the loaded tables of every category, in file order
type RawData struct {
	Tables map[Category][]*Table
}

// Loader turns a directory of game CSV files into categorized tables
type Loader struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: files.NewDiscovery("."),
		logger:    logger.With("component", "loader"),
	}
}

// LoadDirectory loads every CSV file below root. Files that fail to load are
// logged, counted and skipped; only a failure to enumerate root or a
// cancelled context is returned as an error.
func (l *Loader) LoadDirectory(ctx context.Context, root string) (*RawData, *LoadReport, error) {
	found, err := l.discovery.WalkCSVFiles(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	data := &RawData{Tables: make(map[Category][]*Table)}
	report := &LoadReport{Rows: make(map[Category]int)}

	for _, f := range found {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		report.FilesSeen++

		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			rel = f.Path
		}

		category, table, err := l.LoadFile(f.Path, rel)
		switch {
		case errors.Is(err, errUnclassified):
			report.Unclassified++
			l.logger.DebugContext(ctx, "Ignoring unrecognized file", slog.String("path", f.Path))
			continue
		case err != nil:
			report.Skipped++
			report.Failures = append(report.Failures, FileFailure{Path: f.Path, Error: err.Error()})
			l.logger.WarnContext(ctx, "Skipping file",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			continue
		}

		report.Loaded++
		report.Rows[category] += table.Len()
		data.Tables[category] = append(data.Tables[category], table)
	}

	l.logger.InfoContext(ctx, "Directory loaded",
		slog.String("root", root),
		slog.Int("files_seen", report.FilesSeen),
		slog.Int("loaded", report.Loaded),
		slog.Int("skipped", report.Skipped),
		slog.Int("unclassified", report.Unclassified))

	return data, report, nil
}

var errUnclassified = errors.New("unrecognized file name")

// LoadFile classifies and loads one file. metaPath is the path used for game
// metadata, usually relative to the scan root so folders above it are not
// mistaken for game folders.
func (l *Loader) LoadFile(path, metaPath string) (Category, *Table, error) {
	category := Classify(path)
	if category == CategoryUnknown {
		return CategoryUnknown, nil, errUnclassified
	}

	table, err := ReadTableFile(path)
	if err != nil {
		return category, nil, &FileError{Path: path, Err: err}
	}
	if len(table.Columns) == 0 {
		return category, nil, &FileError{Path: path, Err: ErrNoHeader}
	}

	info := IdentifyGameInfo(metaPath)
	table.SetColumn(colMatch, info.Match())
	table.SetColumn(colWeek, info.Week)

	if err := validate(category, table); err != nil {
		return category, nil, &FileError{Path: path, Err: fmt.Errorf("%s: %w", category, err)}
	}

	return category, table, nil
}
