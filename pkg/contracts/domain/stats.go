package domain

import (
	"time"
)

// TeamMetrics is the metric set shared by the overall and per-game team tables.
type TeamMetrics struct {
	Goals        int `json:"goals"`
	TotalPoints  int `json:"total_points"`
	Holds        int `json:"holds"`
	Blocks       int `json:"blocks"`
	Turnovers    int `json:"turnovers"`
	PassAttempts int `json:"pass_attempts"`
	FailedPasses int `json:"failed_passes"`
	Hucks        int `json:"hucks"`
	// AvgThrowDistance is nil when the team has no measured passes.
	AvgThrowDistance *float64 `json:"avg_throw_distance"`
}

// Breaks is the number of scores on points the team started on defense.
func (m TeamMetrics) Breaks() int {
	return m.Goals - m.Holds
}

// TeamStatsOverall is one row of team-stats-overall.csv.
type TeamStatsOverall struct {
	Team string `json:"team"`
	TeamMetrics
}

// TeamStatsGame is one row of team-stats-game.csv.
type TeamStatsGame struct {
	Team  string `json:"team"`
	Match string `json:"match"`
	Week  string `json:"week"`
	TeamMetrics
}

// PlayerCounters holds the per-player sums shared by both player tables.
type PlayerCounters struct {
	Touches             int     `json:"touches"`
	Throws              int     `json:"throws"`
	Catches             int     `json:"catches"`
	Blocks              int     `json:"blocks"`
	Goals               int     `json:"goals"`
	Turnovers           int     `json:"turnovers"`
	ThrowGainYards      float64 `json:"throw_gain_yards"`
	CatchGainYards      float64 `json:"catch_gain_yards"`
	OffensePointsPlayed int     `json:"offense_points_played"`
	DefensePointsPlayed int     `json:"defense_points_played"`
	Assists             int     `json:"assists"`
}

// PlayerStatsOverall is one row of player-stats-overall.csv.
type PlayerStatsOverall struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	PlayerCounters
	PossessionsInitiated int `json:"possessions_initiated"`
	// Averages are computed over completed passes only and are nil when the
	// player has none.
	AvgThrowDistance   *float64 `json:"avg_throw_distance"`
	AvgReceiveDistance *float64 `json:"avg_receive_distance"`
}

// PlayerStatsGame is one row of player-stats-game.csv.
type PlayerStatsGame struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Match  string `json:"match"`
	Week   string `json:"week"`
	PlayerCounters
}

// Season bundles the four aggregated tables of one pipeline run. It is built
// once and shared read-only by every consumer.
type Season struct {
	RunID       string               `json:"run_id,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
	Teams       []TeamStatsOverall   `json:"teams"`
	TeamGames   []TeamStatsGame      `json:"team_games"`
	Players     []PlayerStatsOverall `json:"players"`
	PlayerGames []PlayerStatsGame    `json:"player_games"`
}

// Standing is a team's season line as shown on the standings page.
type Standing struct {
	Team        string  `json:"team"`
	Games       int     `json:"games"`
	Goals       int     `json:"goals"`
	TotalPoints int     `json:"total_points"`
	Holds       int     `json:"holds"`
	Breaks      int     `json:"breaks"`
	ScoreRate   float64 `json:"score_rate"`
}

// GameSummary pairs the per-game team lines of one match.
type GameSummary struct {
	Match string          `json:"match"`
	Week  string          `json:"week"`
	Teams []TeamStatsGame `json:"teams"`
}
