package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	root := t.TempDir()

	paths, err := NewPaths(root)
	require.NoError(t, err)

	assert.Equal(t, root, paths.WorkDir)
	assert.Equal(t, filepath.Join(root, "game_day_info"), paths.ExtractDir)
	assert.Equal(t, filepath.Join(root, "game_data"), paths.DownloadDir)
	assert.Equal(t, filepath.Join(root, "integ-data", "Player-Stats.csv"), paths.PlayerStatsCSV)
	assert.Equal(t, filepath.Join(root, "integ-data", "Defensive-Blocks.csv"), paths.DefensiveBlocksCSV)
	assert.Equal(t, filepath.Join(root, "stats", "team-stats-overall.csv"), paths.TeamOverallCSV)
	assert.Equal(t, filepath.Join(root, "stats", "player-stats-game.csv"), paths.PlayerGameCSV)
}

func TestNewPathsRelative(t *testing.T) {
	paths, err := NewPaths("")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, paths.WorkDir)
	assert.True(t, filepath.IsAbs(paths.StatsDir))
}

func TestEnsureDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	paths, err := NewPaths(root)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.IntegDir, paths.StatsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.NoDirExists(t, paths.ExtractDir)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	paths, err := NewPaths(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "2024_game_day_info.zip"), paths.Resolve("2024_game_day_info.zip"))
	abs := filepath.Join(root, "elsewhere", "a.zip")
	assert.Equal(t, abs, paths.Resolve(abs))
	assert.Equal(t, "", paths.Resolve(""))
}
