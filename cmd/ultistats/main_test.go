package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevindiazor/ThePUL/internal/config"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, body := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProcess_Archive(t *testing.T) {
	workDir := t.TempDir()
	archive := writeArchive(t, map[string]string{
		"Week 1/Rays @ Owls/Points.csv": "team,Scored?,Started on offense?,Defensive blocks,Turnovers\n" +
			"Rays,1,1,0,0\nOwls,1,0,1,2\n",
		"Week 1/Rays @ Owls/Passes.csv": "team,Thrower,Receiver,Turnover?,Huck?,Forward distance (yd)\n" +
			"Rays,Ann,Bo,0,1,40\n",
		"Week 1/Rays @ Owls/Player Stats.csv": "Player,team,Touches,Throws,Catches,Defensive blocks,Goals," +
			"Turnovers,Total completed throw gain (yd),Total caught pass gain (yd),Offense points played," +
			"Defense points played,Possessions initiated,Assists\n" +
			"Ann,Rays,2,1,1,0,0,0,40,0,1,0,1,1\n",
	})

	out, err := execute(t, "--workdir", workDir, "process", "--zip", archive, "--workbook")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	// Owls have no passes, so the season table keeps only Rays
	assert.Contains(t, out, "1 teams")

	paths, err := config.NewPaths(workDir)
	require.NoError(t, err)
	assert.FileExists(t, paths.PlayerGameCSV)

	overall, err := os.ReadFile(paths.TeamOverallCSV)
	require.NoError(t, err)
	assert.Contains(t, string(overall), "Rays")
	assert.NotContains(t, string(overall), "Owls")
}

func TestProcess_MissingArchiveFails(t *testing.T) {
	workDir := t.TempDir()

	out, err := execute(t, "--workdir", workDir, "process", "--zip", filepath.Join(workDir, "missing.zip"))
	require.Error(t, err)
	assert.Contains(t, out, "failed")
}

func TestProcess_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "process")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestProcessOptions_Apply(t *testing.T) {
	tests := []struct {
		name   string
		opts   processOptions
		source string
		check  func(t *testing.T, p config.PipelineConfig)
	}{
		{
			name:   "defaults keep the configured archive",
			opts:   processOptions{},
			source: "archive",
			check: func(t *testing.T, p config.PipelineConfig) {
				assert.Equal(t, config.DefaultArchiveName, p.ArchivePath)
			},
		},
		{
			name:   "zip",
			opts:   processOptions{zip: "other.zip", workbook: true},
			source: "archive",
			check: func(t *testing.T, p config.PipelineConfig) {
				assert.Equal(t, "other.zip", p.ArchivePath)
				assert.True(t, p.ExportWorkbook)
			},
		},
		{
			name:   "remote wins over zip",
			opts:   processOptions{zip: "other.zip", remote: "folder-1", recursive: true},
			source: "remote",
			check: func(t *testing.T, p config.PipelineConfig) {
				assert.Equal(t, "folder-1", p.RemoteFolder)
				assert.True(t, p.Recursive)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.opts.apply(cfg)
			assert.Equal(t, tt.source, cfg.Pipeline.Source)
			tt.check(t, cfg.Pipeline)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, config.AppName+" "+config.AppVersion+"\n", out)
}
