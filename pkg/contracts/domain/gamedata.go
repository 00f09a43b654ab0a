package domain

// UnresolvedMatch is the match key given to every game whose team pair could
// not be read from the source path. All such games group together.
const UnresolvedMatch = "unresolved"

// MatchKey builds the "<team1> @ <team2>" key used to scope per-game
// aggregation. Either team missing yields UnresolvedMatch.
func MatchKey(team1, team2 string) string {
	if team1 == "" || team2 == "" {
		return UnresolvedMatch
	}
	return team1 + " @ " + team2
}

// PointRecord is one row of a Points file: the outcome of a single point
// from one team's perspective.
type PointRecord struct {
	Team             string `json:"team"`
	Scored           bool   `json:"scored"`
	StartedOnOffense bool   `json:"started_on_offense"`
	DefensiveBlocks  int    `json:"defensive_blocks"`
	Turnovers        int    `json:"turnovers"`
	Match            string `json:"match"`
	Week             string `json:"week"`
}

// PassRecord is one row of a Passes file.
type PassRecord struct {
	Team     string `json:"team"`
	Thrower  string `json:"thrower"`
	Receiver string `json:"receiver"`
	Turnover bool   `json:"turnover"`
	Huck     bool   `json:"huck"`
	// ForwardDistance is nil when the source cell was empty.
	ForwardDistance *float64 `json:"forward_distance,omitempty"`
	Match           string   `json:"match"`
	Week            string   `json:"week"`
}

// PlayerStatRecord is one row of a Player Stats file: a player's counters
// for a single game.
type PlayerStatRecord struct {
	Player               string  `json:"player"`
	Team                 string  `json:"team"`
	Touches              int     `json:"touches"`
	Throws               int     `json:"throws"`
	Catches              int     `json:"catches"`
	DefensiveBlocks      int     `json:"defensive_blocks"`
	Goals                int     `json:"goals"`
	Turnovers            int     `json:"turnovers"`
	ThrowGain            float64 `json:"throw_gain"`
	CatchGain            float64 `json:"catch_gain"`
	OffensePointsPlayed  int     `json:"offense_points_played"`
	DefensePointsPlayed  int     `json:"defense_points_played"`
	PossessionsInitiated int     `json:"possessions_initiated"`
	Assists              int     `json:"assists"`
	Match                string  `json:"match"`
	Week                 string  `json:"week"`
}
