package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevindiazor/ThePUL/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	return NewManager(paths, nil), paths
}

func TestResetDirectory(t *testing.T) {
	m, paths := newTestManager(t)
	writeFiles(t, paths.ExtractDir, "Week_1/stale.csv")

	require.NoError(t, m.ResetDirectory(paths.ExtractDir))

	entries, err := os.ReadDir(paths.ExtractDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResetDirectoryCreatesMissing(t *testing.T) {
	m, paths := newTestManager(t)

	require.NoError(t, m.ResetDirectory("game_data"))
	assert.DirExists(t, paths.DownloadDir)
}

func TestResetDirectoryRefusesOutsideWorkDir(t *testing.T) {
	m, paths := newTestManager(t)

	tests := []string{
		paths.WorkDir,
		filepath.Dir(paths.WorkDir),
		filepath.Join(paths.WorkDir, "..", "sibling"),
	}
	for _, dir := range tests {
		assert.Error(t, m.ResetDirectory(dir), dir)
	}
}

func TestEnsureDirectory(t *testing.T) {
	m, paths := newTestManager(t)

	require.NoError(t, m.EnsureDirectory("stats"))
	assert.DirExists(t, paths.StatsDir)
}
