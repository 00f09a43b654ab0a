package dataprocessing

import (
	"cmp"
	"slices"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

type playerKey struct {
	player string
	team   string
}

type playerGameKey struct {
	playerKey
	match string
	week  string
}

func addCounters(c *domain.PlayerCounters, r domain.PlayerStatRecord) {
	c.Touches += r.Touches
	c.Throws += r.Throws
	c.Catches += r.Catches
	c.Blocks += r.DefensiveBlocks
	c.Goals += r.Goals
	c.Turnovers += r.Turnovers
	c.ThrowGainYards += r.ThrowGain
	c.CatchGainYards += r.CatchGain
	c.OffensePointsPlayed += r.OffensePointsPlayed
	c.DefensePointsPlayed += r.DefensePointsPlayed
	c.Assists += r.Assists
}

// completedPassAverages returns the mean forward distance of completed
// passes keyed by thrower and by receiver
func completedPassAverages(passes []domain.PassRecord) (throws, receives map[string]*mean) {
	throws = make(map[string]*mean)
	receives = make(map[string]*mean)
	for _, p := range passes {
		if p.Turnover {
			continue
		}
		if _, ok := throws[p.Thrower]; !ok {
			throws[p.Thrower] = &mean{}
		}
		throws[p.Thrower].add(p.ForwardDistance)

		if _, ok := receives[p.Receiver]; !ok {
			receives[p.Receiver] = &mean{}
		}
		receives[p.Receiver].add(p.ForwardDistance)
	}
	return throws, receives
}

func averageFor(m map[string]*mean, player string) *float64 {
	if v, ok := m[player]; ok {
		return v.value()
	}
	return nil
}

// PlayerOverall aggregates season counters per (player, team) and attaches
// completed-pass distance averages by player name.
func PlayerOverall(stats []domain.PlayerStatRecord, passes []domain.PassRecord) []domain.PlayerStatsOverall {
	rows := make(map[playerKey]*domain.PlayerStatsOverall)
	for _, r := range stats {
		key := playerKey{player: r.Player, team: r.Team}
		row, ok := rows[key]
		if !ok {
			row = &domain.PlayerStatsOverall{Player: r.Player, Team: r.Team}
			rows[key] = row
		}
		addCounters(&row.PlayerCounters, r)
		row.PossessionsInitiated += r.PossessionsInitiated
	}

	throws, receives := completedPassAverages(passes)

	out := make([]domain.PlayerStatsOverall, 0, len(rows))
	for _, row := range rows {
		row.AvgThrowDistance = averageFor(throws, row.Player)
		row.AvgReceiveDistance = averageFor(receives, row.Player)
		out = append(out, *row)
	}

	slices.SortFunc(out, func(a, b domain.PlayerStatsOverall) int {
		return cmp.Or(cmp.Compare(a.Player, b.Player), cmp.Compare(a.Team, b.Team))
	})
	return out
}

// PlayerGames aggregates counters per (player, team, match, week)
func PlayerGames(stats []domain.PlayerStatRecord) []domain.PlayerStatsGame {
	rows := make(map[playerGameKey]*domain.PlayerStatsGame)
	for _, r := range stats {
		key := playerGameKey{playerKey: playerKey{player: r.Player, team: r.Team}, match: r.Match, week: r.Week}
		row, ok := rows[key]
		if !ok {
			row = &domain.PlayerStatsGame{Player: r.Player, Team: r.Team, Match: r.Match, Week: r.Week}
			rows[key] = row
		}
		addCounters(&row.PlayerCounters, r)
	}

	out := make([]domain.PlayerStatsGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}

	slices.SortFunc(out, func(a, b domain.PlayerStatsGame) int {
		return cmp.Or(
			cmp.Compare(a.Player, b.Player),
			cmp.Compare(a.Team, b.Team),
			cmp.Compare(a.Match, b.Match),
			cmp.Compare(a.Week, b.Week),
		)
	})
	return out
}
