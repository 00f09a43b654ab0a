package exporter

import (
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// Column headers of the aggregated outputs
var (
	teamMetricHeaders = []string{
		"goals", "total_points", "holds", "blocks", "turnovers",
		"pass_attempts", "failed_passes", "hucks", "avg_throw_distance",
	}

	TeamOverallHeaders = append([]string{"team"}, teamMetricHeaders...)
	TeamGameHeaders    = append([]string{"team", "match", "week"}, teamMetricHeaders...)

	playerCounterHeaders = []string{
		"touches", "throws", "catches", "blocks", "goals", "turnovers",
		"throw_gain_yards", "catch_gain_yards",
		"offense_points_played", "defense_points_played",
	}

	PlayerOverallHeaders = concat(
		[]string{"player", "team"},
		playerCounterHeaders,
		[]string{"possessions_initiated", "assists", "avg_throw_distance", "avg_receive_distance"},
	)
	PlayerGameHeaders = concat(
		[]string{"player", "team", "match", "week"},
		playerCounterHeaders,
		[]string{"assists"},
	)
)

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func teamMetricCells(m domain.TeamMetrics) []string {
	return []string{
		FormatInt(m.Goals),
		FormatInt(m.TotalPoints),
		FormatInt(m.Holds),
		FormatInt(m.Blocks),
		FormatInt(m.Turnovers),
		FormatInt(m.PassAttempts),
		FormatInt(m.FailedPasses),
		FormatInt(m.Hucks),
		FormatOptionalFloat(m.AvgThrowDistance),
	}
}

func playerCounterCells(c domain.PlayerCounters) []string {
	return []string{
		FormatInt(c.Touches),
		FormatInt(c.Throws),
		FormatInt(c.Catches),
		FormatInt(c.Blocks),
		FormatInt(c.Goals),
		FormatInt(c.Turnovers),
		FormatFloat(c.ThrowGainYards),
		FormatFloat(c.CatchGainYards),
		FormatInt(c.OffensePointsPlayed),
		FormatInt(c.DefensePointsPlayed),
	}
}

// TeamOverallRecords renders team-stats-overall rows
func TeamOverallRecords(rows []domain.TeamStatsOverall) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, append([]string{r.Team}, teamMetricCells(r.TeamMetrics)...))
	}
	return out
}

// TeamGameRecords renders team-stats-game rows
func TeamGameRecords(rows []domain.TeamStatsGame) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, append([]string{r.Team, r.Match, r.Week}, teamMetricCells(r.TeamMetrics)...))
	}
	return out
}

// PlayerOverallRecords renders player-stats-overall rows
func PlayerOverallRecords(rows []domain.PlayerStatsOverall) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, concat(
			[]string{r.Player, r.Team},
			playerCounterCells(r.PlayerCounters),
			[]string{
				FormatInt(r.PossessionsInitiated),
				FormatInt(r.Assists),
				FormatOptionalFloat(r.AvgThrowDistance),
				FormatOptionalFloat(r.AvgReceiveDistance),
			},
		))
	}
	return out
}

// PlayerGameRecords renders player-stats-game rows
func PlayerGameRecords(rows []domain.PlayerStatsGame) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, concat(
			[]string{r.Player, r.Team, r.Match, r.Week},
			playerCounterCells(r.PlayerCounters),
			[]string{FormatInt(r.Assists)},
		))
	}
	return out
}
