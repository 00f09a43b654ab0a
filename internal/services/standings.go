package services

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// BuildStandings derives one standing per team of the season table. Games
// counts the team's per-game rows. Standings are ordered by score rate, then
// goals, then team name.
func BuildStandings(season *domain.Season) []domain.Standing {
	if season == nil {
		return nil
	}

	games := make(map[string]int, len(season.Teams))
	for _, g := range season.TeamGames {
		games[g.Team]++
	}

	standings := make([]domain.Standing, 0, len(season.Teams))
	for _, t := range season.Teams {
		s := domain.Standing{
			Team:        t.Team,
			Games:       games[t.Team],
			Goals:       t.Goals,
			TotalPoints: t.TotalPoints,
			Holds:       t.Holds,
			Breaks:      t.Breaks(),
		}
		if t.TotalPoints > 0 {
			s.ScoreRate = float64(t.Goals) / float64(t.TotalPoints)
		}
		standings = append(standings, s)
	}

	slices.SortStableFunc(standings, func(a, b domain.Standing) int {
		return cmp.Or(
			cmp.Compare(b.ScoreRate, a.ScoreRate),
			cmp.Compare(b.Goals, a.Goals),
			cmp.Compare(a.Team, b.Team),
		)
	})
	return standings
}

// BuildGameSummaries groups per-game team rows by match and week. Summaries
// are ordered by week, numerically when possible, then match. Rows without
// a resolved week sort last.
func BuildGameSummaries(rows []domain.TeamStatsGame) []domain.GameSummary {
	type key struct{ match, week string }

	index := make(map[key]int)
	var summaries []domain.GameSummary
	for _, r := range rows {
		k := key{r.Match, r.Week}
		i, ok := index[k]
		if !ok {
			i = len(summaries)
			index[k] = i
			summaries = append(summaries, domain.GameSummary{Match: r.Match, Week: r.Week})
		}
		summaries[i].Teams = append(summaries[i].Teams, r)
	}

	slices.SortStableFunc(summaries, func(a, b domain.GameSummary) int {
		return cmp.Or(compareWeeks(a.Week, b.Week), cmp.Compare(a.Match, b.Match))
	})
	return summaries
}

func compareWeeks(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a, b)
}
