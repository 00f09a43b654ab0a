package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/operations"
)

type countHub int

func (c countHub) ClientCount() int { return int(c) }

func TestHealthCheck(t *testing.T) {
	f := newServiceFixture(t, true)
	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{Season: sampleSeason("h")}, nil)

	hs := NewHealthService("1.2.3", f.paths, f.service, countHub(2), nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "goroutines")
	assert.Equal(t, "no season loaded yet", status.Services["season"].(ServiceHealth).Message)
	assert.Equal(t, "2 clients connected", status.Services["websocket"].(ServiceHealth).Message)

	_, err := f.service.Season(context.Background())
	require.NoError(t, err)
	status = hs.HealthCheck(context.Background())
	assert.Contains(t, status.Services["season"].(ServiceHealth).Message, "2 teams, 3 players")
}

func TestReadinessWithoutStatsDir(t *testing.T) {
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)

	hs := NewHealthService("dev", paths, nil, nil, nil)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["data"].(ServiceHealth).Status)
}
