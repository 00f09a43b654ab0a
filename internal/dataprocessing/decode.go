package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// Source column names. Lookups ignore case and surrounding whitespace.
const (
	colTeam             = "team"
	colMatch            = "match"
	colWeek             = "week"
	colScored           = "Scored?"
	colStartedOnOffense = "Started on offense?"
	colDefensiveBlocks  = "Defensive blocks"
	colTurnovers        = "Turnovers"
	colTurnover         = "Turnover?"
	colHuck             = "Huck?"
	colForwardDistance  = "Forward distance (yd)"
	colThrower          = "Thrower"
	colReceiver         = "Receiver"
	colPlayer           = "Player"
	colTouches          = "Touches"
	colThrows           = "Throws"
	colCatches          = "Catches"
	colGoals            = "Goals"
	colThrowGain        = "Total completed throw gain (yd)"
	colCatchGain        = "Total caught pass gain (yd)"
	colOffensePoints    = "Offense points played"
	colDefensePoints    = "Defense points played"
	colPossessions      = "Possessions initiated"
	colAssists          = "Assists"
)

// rowReader gives typed access to the cells of one table row
type rowReader struct {
	index map[string]int
	row   []string
	line  int
	err   error
}

// columnIndex resolves the required columns of t. A table without columns
// has no rows to decode and resolves to nil without error.
func columnIndex(t *Table, required ...string) (map[string]int, error) {
	if len(t.Columns) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i := t.ColumnIndex(name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		index[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func (r *rowReader) cell(name string) string {
	return strings.TrimSpace(r.row[r.index[name]])
}

func (r *rowReader) fail(name, value string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: row %d column %q: %q", ErrInvalidValue, r.line, name, value)
	}
}

func (r *rowReader) str(name string) string {
	return r.cell(name)
}

// boolean accepts 1/0/true/false/t/f in any case; empty reads as false.
func (r *rowReader) boolean(name string) bool {
	v := r.cell(name)
	switch strings.ToLower(v) {
	case "", "0", "false", "f":
		return false
	case "1", "true", "t":
		return true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && (f == 0 || f == 1) {
		return f == 1
	}
	r.fail(name, v)
	return false
}

// count reads an integer cell; integral floats such as "3.0" are accepted and
// empty reads as 0. Values outside the int64 range are rejected.
func (r *rowReader) count(name string) int {
	v := r.cell(name)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		r.fail(name, v)
		return 0
	}
	return int(f)
}

// number reads a float; empty reads as 0.
func (r *rowReader) number(name string) float64 {
	v := r.cell(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) {
		r.fail(name, v)
		return 0
	}
	return f
}

// optionalNumber reads a float; empty reads as missing.
func (r *rowReader) optionalNumber(name string) *float64 {
	v := r.cell(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) {
		r.fail(name, v)
		return nil
	}
	return &f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// decodeRows runs decode over every row of t, stopping at the first bad cell
func decodeRows[T any](t *Table, required []string, decode func(*rowReader) T) ([]T, error) {
	index, err := columnIndex(t, required...)
	if err != nil {
		return nil, err
	}
	if index == nil {
		return nil, nil
	}

	out := make([]T, 0, len(t.Rows))
	r := &rowReader{index: index}
	for i, row := range t.Rows {
		r.row, r.line = row, i+1
		rec := decode(r)
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodePoints reads Points rows
func DecodePoints(t *Table) ([]domain.PointRecord, error) {
	required := []string{colTeam, colScored, colStartedOnOffense, colDefensiveBlocks, colTurnovers, colMatch, colWeek}
	return decodeRows(t, required, func(r *rowReader) domain.PointRecord {
		return domain.PointRecord{
			Team:             r.str(colTeam),
			Scored:           r.boolean(colScored),
			StartedOnOffense: r.boolean(colStartedOnOffense),
			DefensiveBlocks:  r.count(colDefensiveBlocks),
			Turnovers:        r.count(colTurnovers),
			Match:            r.str(colMatch),
			Week:             r.str(colWeek),
		}
	})
}

// DecodePasses reads Passes rows
func DecodePasses(t *Table) ([]domain.PassRecord, error) {
	required := []string{colTeam, colThrower, colReceiver, colTurnover, colHuck, colForwardDistance, colMatch, colWeek}
	return decodeRows(t, required, func(r *rowReader) domain.PassRecord {
		return domain.PassRecord{
			Team:            r.str(colTeam),
			Thrower:         r.str(colThrower),
			Receiver:        r.str(colReceiver),
			Turnover:        r.boolean(colTurnover),
			Huck:            r.boolean(colHuck),
			ForwardDistance: r.optionalNumber(colForwardDistance),
			Match:           r.str(colMatch),
			Week:            r.str(colWeek),
		}
	})
}

// DecodePlayerStats reads Player Stats rows
func DecodePlayerStats(t *Table) ([]domain.PlayerStatRecord, error) {
	required := []string{
		colPlayer, colTeam, colTouches, colThrows, colCatches, colDefensiveBlocks,
		colGoals, colTurnovers, colThrowGain, colCatchGain, colOffensePoints,
		colDefensePoints, colPossessions, colAssists, colMatch, colWeek,
	}
	return decodeRows(t, required, func(r *rowReader) domain.PlayerStatRecord {
		return domain.PlayerStatRecord{
			Player:               r.str(colPlayer),
			Team:                 r.str(colTeam),
			Touches:              r.count(colTouches),
			Throws:               r.count(colThrows),
			Catches:              r.count(colCatches),
			DefensiveBlocks:      r.count(colDefensiveBlocks),
			Goals:                r.count(colGoals),
			Turnovers:            r.count(colTurnovers),
			ThrowGain:            r.number(colThrowGain),
			CatchGain:            r.number(colCatchGain),
			OffensePointsPlayed:  r.count(colOffensePoints),
			DefensePointsPlayed:  r.count(colDefensePoints),
			PossessionsInitiated: r.count(colPossessions),
			Assists:              r.count(colAssists),
			Match:                r.str(colMatch),
			Week:                 r.str(colWeek),
		}
	})
}

// validate decodes the typed categories of t, discarding the records
func validate(category Category, t *Table) error {
	var err error
	switch category {
	case CategoryPoints:
		_, err = DecodePoints(t)
	case CategoryPasses:
		_, err = DecodePasses(t)
	case CategoryPlayerStats:
		_, err = DecodePlayerStats(t)
	}
	return err
}
