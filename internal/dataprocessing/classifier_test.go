package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"Possessions.csv", CategoryPossessions},
		{"Player Stats vs Flyers.csv", CategoryPlayerStats},
		{"Defensive Blocks.csv", CategoryDefensiveBlocks},
		{"Defensive_Blocks.csv", CategoryDefensiveBlocks},
		{"Points.csv", CategoryPoints},
		{"Passes.csv", CategoryPasses},
		{"Possession Points Passes.csv", CategoryPossessions},
		{"Player Stats Points.csv", CategoryPlayerStats},
		{"Points and Passes.csv", CategoryPoints},
		{"points.csv", CategoryUnknown},
		{"Roster.csv", CategoryUnknown},
		{filepath.Join("Points", "Roster.csv"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestCategoriesAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		assert.NotEqual(t, "Unknown", c.String())
		assert.False(t, seen[c.FileName()], "duplicate output file %s", c.FileName())
		seen[c.FileName()] = true
	}
	assert.Len(t, seen, 5)
}

func TestCategoryMarshalText(t *testing.T) {
	text, err := CategoryPlayerStats.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "PlayerStats", string(text))
}
