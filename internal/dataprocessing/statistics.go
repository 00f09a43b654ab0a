package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/exporter"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// CalculatorOption configures a Calculator
type CalculatorOption func(*Calculator)

// WithWorkbook enables the season workbook next to the CSV outputs
func WithWorkbook(enabled bool) CalculatorOption {
	return func(c *Calculator) {
		c.workbook = enabled
	}
}

// WithClock overrides the time source used for Season.GeneratedAt
func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) {
		c.now = now
	}
}

// Calculator turns the integrated raw tables into the four season tables
type Calculator struct {
	paths    *config.Paths
	logger   *slog.Logger
	workbook bool
	now      func() time.Time
}

// NewCalculator creates a calculator reading from paths.IntegDir and writing
// to paths.StatsDir
func NewCalculator(paths *config.Paths, logger *slog.Logger, opts ...CalculatorOption) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Calculator{
		paths:  paths,
		logger: logger.With("component", "calculator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Aggregate computes every season table from typed records
func Aggregate(points []domain.PointRecord, passes []domain.PassRecord, stats []domain.PlayerStatRecord) *domain.Season {
	return &domain.Season{
		Teams:       TeamOverall(points, passes),
		TeamGames:   TeamGames(points, passes),
		Players:     PlayerOverall(stats, passes),
		PlayerGames: PlayerGames(stats),
	}
}

// Compute reads the integrated Points, Passes and Player Stats tables and
// aggregates them in memory. Nothing is written.
func (c *Calculator) Compute(ctx context.Context) (*domain.Season, error) {
	pointsTable, err := c.readIntegrated(CategoryPoints)
	if err != nil {
		return nil, err
	}
	points, err := DecodePoints(pointsTable)
	if err != nil {
		return nil, &FileError{Path: c.integratedPath(CategoryPoints), Err: err}
	}

	passesTable, err := c.readIntegrated(CategoryPasses)
	if err != nil {
		return nil, err
	}
	passes, err := DecodePasses(passesTable)
	if err != nil {
		return nil, &FileError{Path: c.integratedPath(CategoryPasses), Err: err}
	}

	statsTable, err := c.readIntegrated(CategoryPlayerStats)
	if err != nil {
		return nil, err
	}
	stats, err := DecodePlayerStats(statsTable)
	if err != nil {
		return nil, &FileError{Path: c.integratedPath(CategoryPlayerStats), Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	season := Aggregate(points, passes, stats)
	season.GeneratedAt = c.now().UTC()

	c.logger.InfoContext(ctx, "Statistics computed",
		slog.Int("points", len(points)),
		slog.Int("passes", len(passes)),
		slog.Int("player_rows", len(stats)),
		slog.Int("teams", len(season.Teams)),
		slog.Int("players", len(season.Players)))

	return season, nil
}

// Run computes the season and replaces every output in paths.StatsDir as one
// set. On error the previous outputs are left untouched.
func (c *Calculator) Run(ctx context.Context) (*domain.Season, error) {
	season, err := c.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Write(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

// Write persists season to the stats directory
func (c *Calculator) Write(ctx context.Context, season *domain.Season) error {
	set := exporter.NewAtomicSet(c.logger)
	defer set.Abort()

	outputs := []struct {
		path    string
		options exporter.WriteOptions
	}{
		{c.paths.TeamOverallCSV, exporter.WriteOptions{
			Headers: exporter.TeamOverallHeaders,
			Records: exporter.TeamOverallRecords(season.Teams),
		}},
		{c.paths.TeamGameCSV, exporter.WriteOptions{
			Headers: exporter.TeamGameHeaders,
			Records: exporter.TeamGameRecords(season.TeamGames),
		}},
		{c.paths.PlayerOverallCSV, exporter.WriteOptions{
			Headers: exporter.PlayerOverallHeaders,
			Records: exporter.PlayerOverallRecords(season.Players),
		}},
		{c.paths.PlayerGameCSV, exporter.WriteOptions{
			Headers: exporter.PlayerGameHeaders,
			Records: exporter.PlayerGameRecords(season.PlayerGames),
		}},
	}

	for _, out := range outputs {
		if err := set.Stage(out.path, out.options); err != nil {
			return err
		}
	}

	if c.workbook {
		err := set.StageFunc(c.paths.SeasonWorkbook, func(w io.Writer) error {
			return exporter.WriteWorkbook(w, season)
		})
		if err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := set.Commit(); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Statistics written",
		slog.String("output_dir", c.paths.StatsDir),
		slog.Int("files", set.Len()))
	return nil
}

func (c *Calculator) integratedPath(category Category) string {
	return filepath.Join(c.paths.IntegDir, category.FileName())
}

func (c *Calculator) readIntegrated(category Category) (*Table, error) {
	path := c.integratedPath(category)
	t, err := ReadTableFile(path)
	if err != nil {
		return nil, fmt.Errorf("read integrated %s: %w", category, err)
	}
	return t, nil
}
