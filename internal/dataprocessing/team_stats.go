package dataprocessing

import (
	"cmp"
	"slices"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// gameKey scopes per-game aggregation
type gameKey struct {
	team  string
	match string
	week  string
}

func compareGameKeys(a, b gameKey) int {
	return cmp.Or(
		cmp.Compare(a.team, b.team),
		cmp.Compare(a.match, b.match),
		cmp.Compare(a.week, b.week),
	)
}

// goalStats accumulates the Points-derived team metrics
type goalStats struct {
	goals, points, holds, blocks, turnovers int
}

func (g *goalStats) add(p domain.PointRecord) {
	g.points++
	if p.Scored {
		g.goals++
		if p.StartedOnOffense {
			g.holds++
		}
	}
	g.blocks += p.DefensiveBlocks
	g.turnovers += p.Turnovers
}

// passStats accumulates the Passes-derived team metrics
type passStats struct {
	attempts, failed, hucks int
	distance                mean
}

func (s *passStats) add(p domain.PassRecord) {
	s.attempts++
	if p.Turnover {
		s.failed++
	}
	if p.Huck {
		s.hucks++
	}
	s.distance.add(p.ForwardDistance)
}

// mean averages present values; with none it is missing
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

func teamMetrics(g goalStats, p *passStats) domain.TeamMetrics {
	m := domain.TeamMetrics{
		Goals:       g.goals,
		TotalPoints: g.points,
		Holds:       g.holds,
		Blocks:      g.blocks,
		Turnovers:   g.turnovers,
	}
	if p != nil {
		m.PassAttempts = p.attempts
		m.FailedPasses = p.failed
		m.Hucks = p.hucks
		m.AvgThrowDistance = p.distance.value()
	}
	return m
}

// TeamOverall aggregates season team metrics. Only teams present in both
// points and passes appear in the result.
func TeamOverall(points []domain.PointRecord, passes []domain.PassRecord) []domain.TeamStatsOverall {
	goals := make(map[string]*goalStats)
	for _, p := range points {
		g, ok := goals[p.Team]
		if !ok {
			g = &goalStats{}
			goals[p.Team] = g
		}
		g.add(p)
	}

	throws := make(map[string]*passStats)
	for _, p := range passes {
		s, ok := throws[p.Team]
		if !ok {
			s = &passStats{}
			throws[p.Team] = s
		}
		s.add(p)
	}

	out := make([]domain.TeamStatsOverall, 0, len(goals))
	for team, g := range goals {
		s, ok := throws[team]
		if !ok {
			continue
		}
		out = append(out, domain.TeamStatsOverall{
			Team:        team,
			TeamMetrics: teamMetrics(*g, s),
		})
	}

	slices.SortFunc(out, func(a, b domain.TeamStatsOverall) int {
		return cmp.Compare(a.Team, b.Team)
	})
	return out
}

// TeamGames aggregates team metrics per game. Every (team, match, week) with
// points gets a row; pass metrics are attached when the game has passes and
// are otherwise zero with a missing average.
func TeamGames(points []domain.PointRecord, passes []domain.PassRecord) []domain.TeamStatsGame {
	goals := make(map[gameKey]*goalStats)
	for _, p := range points {
		key := gameKey{team: p.Team, match: p.Match, week: p.Week}
		g, ok := goals[key]
		if !ok {
			g = &goalStats{}
			goals[key] = g
		}
		g.add(p)
	}

	throws := make(map[gameKey]*passStats)
	for _, p := range passes {
		key := gameKey{team: p.Team, match: p.Match, week: p.Week}
		s, ok := throws[key]
		if !ok {
			s = &passStats{}
			throws[key] = s
		}
		s.add(p)
	}

	keys := make([]gameKey, 0, len(goals))
	for k := range goals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareGameKeys)

	out := make([]domain.TeamStatsGame, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.TeamStatsGame{
			Team:        k.team,
			Match:       k.match,
			Week:        k.week,
			TeamMetrics: teamMetrics(*goals[k], throws[k]),
		})
	}
	return out
}
