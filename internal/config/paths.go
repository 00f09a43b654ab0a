package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	WorkDir     string
	ExtractDir  string
	DownloadDir string
	IntegDir    string
	StatsDir    string
	LogsDir     string

	// Integrated raw tables
	PossessionsCSV     string
	PlayerStatsCSV     string
	DefensiveBlocksCSV string
	PointsCSV          string
	PassesCSV          string

	// Aggregated outputs
	TeamOverallCSV   string
	TeamGameCSV      string
	PlayerOverallCSV string
	PlayerGameCSV    string
	SeasonWorkbook   string
}

// NewPaths lays out the working directory tree rooted at workDir.
//
//	<workdir>/
//	  ├── game_day_info/   (extracted archive)
//	  ├── game_data/       (remote downloads)
//	  ├── integ-data/      (one CSV per raw category)
//	  ├── stats/           (aggregated season tables)
//	  └── logs/
func NewPaths(workDir string) (*Paths, error) {
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work dir %q: %w", workDir, err)
	}

	integDir := filepath.Join(abs, IntegDirName)
	statsDir := filepath.Join(abs, StatsDirName)

	return &Paths{
		WorkDir:     abs,
		ExtractDir:  filepath.Join(abs, ExtractDirName),
		DownloadDir: filepath.Join(abs, DownloadDirName),
		IntegDir:    integDir,
		StatsDir:    statsDir,
		LogsDir:     filepath.Join(abs, LogsDirName),

		PossessionsCSV:     filepath.Join(integDir, PossessionsFile),
		PlayerStatsCSV:     filepath.Join(integDir, PlayerStatsFile),
		DefensiveBlocksCSV: filepath.Join(integDir, DefensiveBlocksFile),
		PointsCSV:          filepath.Join(integDir, PointsFile),
		PassesCSV:          filepath.Join(integDir, PassesFile),

		TeamOverallCSV:   filepath.Join(statsDir, TeamOverallFile),
		TeamGameCSV:      filepath.Join(statsDir, TeamGameFile),
		PlayerOverallCSV: filepath.Join(statsDir, PlayerOverallFile),
		PlayerGameCSV:    filepath.Join(statsDir, PlayerGameFile),
		SeasonWorkbook:   filepath.Join(statsDir, SeasonWorkbookFile),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist.
// The extract and download directories are owned by their steps and reset there.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.WorkDir,
		p.IntegDir,
		p.StatsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// Resolve returns p joined to the work directory unless it is already absolute
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.WorkDir, path)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("work", p.WorkDir),
			slog.String("extract", p.ExtractDir),
			slog.String("download", p.DownloadDir),
			slog.String("integ", p.IntegDir),
			slog.String("stats", p.StatsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("stats_files",
			slog.String("team_overall", p.TeamOverallCSV),
			slog.String("team_game", p.TeamGameCSV),
			slog.String("player_overall", p.PlayerOverallCSV),
			slog.String("player_game", p.PlayerGameCSV),
		))
}
