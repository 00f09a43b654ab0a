package dataprocessing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kevindiazor/ThePUL/internal/config"
)

// Category is the raw record category of a source file
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPossessions
	CategoryPlayerStats
	CategoryDefensiveBlocks
	CategoryPoints
	CategoryPasses
)

// Categories lists the known categories in output order
func Categories() []Category {
	return []Category{
		CategoryPossessions,
		CategoryPlayerStats,
		CategoryDefensiveBlocks,
		CategoryPoints,
		CategoryPasses,
	}
}

// classificationRules are evaluated in order; the first match wins.
var classificationRules = []struct {
	substrings []string
	category   Category
}{
	{[]string{"Possession"}, CategoryPossessions},
	{[]string{"Player Stats"}, CategoryPlayerStats},
	{[]string{"Defensive Blocks", "Defensive_Blocks"}, CategoryDefensiveBlocks},
	{[]string{"Points"}, CategoryPoints},
	{[]string{"Passes"}, CategoryPasses},
}

// Classify assigns a category from the file name
func Classify(path string) Category {
	name := filepath.Base(path)
	for _, rule := range classificationRules {
		for _, s := range rule.substrings {
			if strings.Contains(name, s) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

// String returns the category name
func (c Category) String() string {
	switch c {
	case CategoryPossessions:
		return "Possessions"
	case CategoryPlayerStats:
		return "PlayerStats"
	case CategoryDefensiveBlocks:
		return "DefensiveBlocks"
	case CategoryPoints:
		return "Points"
	case CategoryPasses:
		return "Passes"
	default:
		return "Unknown"
	}
}

// MarshalText lets categories key JSON objects
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// FileName is the integrated output file of the category
func (c Category) FileName() string {
	switch c {
	case CategoryPossessions:
		return config.PossessionsFile
	case CategoryPlayerStats:
		return config.PlayerStatsFile
	case CategoryDefensiveBlocks:
		return config.DefensiveBlocksFile
	case CategoryPoints:
		return config.PointsFile
	case CategoryPasses:
		return config.PassesFile
	default:
		panic(fmt.Sprintf("no output file for category %d", int(c)))
	}
}
