package dataprocessing

import (
	"fmt"
	"os"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/exporter"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// LoadSeason reads the four aggregated tables back from paths.StatsDir.
// GeneratedAt is the modification time of the team overall table. A missing
// output file returns an error matching fs.ErrNotExist.
func LoadSeason(paths *config.Paths) (*domain.Season, error) {
	info, err := os.Stat(paths.TeamOverallCSV)
	if err != nil {
		return nil, err
	}

	season := &domain.Season{GeneratedAt: info.ModTime().UTC()}

	if season.Teams, err = loadStats(paths.TeamOverallCSV, exporter.TeamOverallHeaders, decodeTeamOverall); err != nil {
		return nil, err
	}
	if season.TeamGames, err = loadStats(paths.TeamGameCSV, exporter.TeamGameHeaders, decodeTeamGame); err != nil {
		return nil, err
	}
	if season.Players, err = loadStats(paths.PlayerOverallCSV, exporter.PlayerOverallHeaders, decodePlayerOverall); err != nil {
		return nil, err
	}
	if season.PlayerGames, err = loadStats(paths.PlayerGameCSV, exporter.PlayerGameHeaders, decodePlayerGame); err != nil {
		return nil, err
	}

	return season, nil
}

func loadStats[T any](path string, headers []string, decode func(*rowReader) T) ([]T, error) {
	t, err := ReadTableFile(path)
	if err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, &FileError{Path: path, Err: ErrNoHeader}
	}
	rows, err := decodeRows(t, headers, decode)
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("decode stats: %w", err)}
	}
	return rows, nil
}

func decodeTeamMetrics(r *rowReader) domain.TeamMetrics {
	return domain.TeamMetrics{
		Goals:            r.count("goals"),
		TotalPoints:      r.count("total_points"),
		Holds:            r.count("holds"),
		Blocks:           r.count("blocks"),
		Turnovers:        r.count("turnovers"),
		PassAttempts:     r.count("pass_attempts"),
		FailedPasses:     r.count("failed_passes"),
		Hucks:            r.count("hucks"),
		AvgThrowDistance: r.optionalNumber("avg_throw_distance"),
	}
}

func decodePlayerCounters(r *rowReader) domain.PlayerCounters {
	return domain.PlayerCounters{
		Touches:             r.count("touches"),
		Throws:              r.count("throws"),
		Catches:             r.count("catches"),
		Blocks:              r.count("blocks"),
		Goals:               r.count("goals"),
		Turnovers:           r.count("turnovers"),
		ThrowGainYards:      r.number("throw_gain_yards"),
		CatchGainYards:      r.number("catch_gain_yards"),
		OffensePointsPlayed: r.count("offense_points_played"),
		DefensePointsPlayed: r.count("defense_points_played"),
		Assists:             r.count("assists"),
	}
}

func decodeTeamOverall(r *rowReader) domain.TeamStatsOverall {
	return domain.TeamStatsOverall{
		Team:        r.str("team"),
		TeamMetrics: decodeTeamMetrics(r),
	}
}

func decodeTeamGame(r *rowReader) domain.TeamStatsGame {
	return domain.TeamStatsGame{
		Team:        r.str("team"),
		Match:       r.str("match"),
		Week:        r.str("week"),
		TeamMetrics: decodeTeamMetrics(r),
	}
}

func decodePlayerOverall(r *rowReader) domain.PlayerStatsOverall {
	return domain.PlayerStatsOverall{
		Player:               r.str("player"),
		Team:                 r.str("team"),
		PlayerCounters:       decodePlayerCounters(r),
		PossessionsInitiated: r.count("possessions_initiated"),
		AvgThrowDistance:     r.optionalNumber("avg_throw_distance"),
		AvgReceiveDistance:   r.optionalNumber("avg_receive_distance"),
	}
}

func decodePlayerGame(r *rowReader) domain.PlayerStatsGame {
	return domain.PlayerStatsGame{
		Player:         r.str("player"),
		Team:           r.str("team"),
		Match:          r.str("match"),
		Week:           r.str("week"),
		PlayerCounters: decodePlayerCounters(r),
	}
}
