package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "archive", cfg.Pipeline.Source)
	assert.Equal(t, DefaultArchiveName, cfg.Pipeline.ArchivePath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DefaultCacheTTL, cfg.Server.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no overrides",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "yaml overlay keeps unspecified defaults",
			yaml: "server:\n  addr: \":9000\"\npipeline:\n  export_workbook: true\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9000", cfg.Server.Addr)
				assert.True(t, cfg.Pipeline.ExportWorkbook)
				assert.Equal(t, "archive", cfg.Pipeline.Source)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name: "environment wins over yaml",
			env: map[string]string{
				"ULTISTATS_SERVER_ADDR":      ":7000",
				"ULTISTATS_LOGGING_LEVEL":    "debug",
				"ULTISTATS_SERVER_CACHE_TTL": "1m",
			},
			yaml: "server:\n  addr: \":9000\"\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":7000", cfg.Server.Addr)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, time.Minute, cfg.Server.CacheTTL)
			},
		},
		{
			name: "remote source requires folder",
			env: map[string]string{
				"ULTISTATS_PIPELINE_SOURCE": "remote",
			},
			wantErr: true,
		},
		{
			name: "remote source with folder",
			env: map[string]string{
				"ULTISTATS_PIPELINE_SOURCE":        "remote",
				"ULTISTATS_PIPELINE_REMOTE_FOLDER": "folder-123",
				"ULTISTATS_PIPELINE_RECURSIVE":     "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "folder-123", cfg.Pipeline.RemoteFolder)
				assert.True(t, cfg.Pipeline.Recursive)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"ULTISTATS_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := filepath.Join(t.TempDir(), "ultistats.yaml")
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(configFile, []byte(tt.yaml), 0644))
			} else {
				require.NoError(t, os.WriteFile(configFile, []byte("{}\n"), 0644))
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
