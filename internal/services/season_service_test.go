package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, req operations.Request) (*operations.RunResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*operations.RunResult)
	return result, args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func ptr(v float64) *float64 { return &v }

func sampleSeason(runID string) *domain.Season {
	return &domain.Season{
		RunID:       runID,
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Teams: []domain.TeamStatsOverall{
			{Team: "Flyers", TeamMetrics: domain.TeamMetrics{Goals: 3, TotalPoints: 6, Holds: 2, AvgThrowDistance: ptr(12)}},
			{Team: "Hammers", TeamMetrics: domain.TeamMetrics{Goals: 6, TotalPoints: 8, Holds: 4}},
		},
		TeamGames: []domain.TeamStatsGame{
			{Team: "Flyers", Match: "Hammers @ Flyers", Week: "1", TeamMetrics: domain.TeamMetrics{Goals: 3, TotalPoints: 6}},
			{Team: "Hammers", Match: "Hammers @ Flyers", Week: "1", TeamMetrics: domain.TeamMetrics{Goals: 4, TotalPoints: 6}},
			{Team: "Hammers", Match: "Owls @ Hammers", Week: "2", TeamMetrics: domain.TeamMetrics{Goals: 2, TotalPoints: 2}},
		},
		Players: []domain.PlayerStatsOverall{
			{Player: "Ann", Team: "Flyers"},
			{Player: "Bo", Team: "Hammers"},
			{Player: "Cy", Team: "Hammers"},
		},
		PlayerGames: []domain.PlayerStatsGame{
			{Player: "Ann", Team: "Flyers", Match: "Hammers @ Flyers", Week: "1"},
			{Player: "Bo", Team: "Hammers", Match: "Hammers @ Flyers", Week: "1"},
			{Player: "Bo", Team: "Hammers", Match: "Owls @ Hammers", Week: "2"},
		},
	}
}

type serviceFixture struct {
	paths   *config.Paths
	runner  *mockRunner
	clock   *fakeClock
	service *SeasonService
}

func newServiceFixture(t *testing.T, withRunner bool) *serviceFixture {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	f := &serviceFixture{
		paths:  paths,
		runner: &mockRunner{},
		clock:  &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts := []SeasonOption{WithCacheTTL(time.Minute), WithNow(f.clock.Now)}
	if withRunner {
		opts = append(opts, WithRunner(f.runner, operations.Request{Strategy: operations.StrategyArchive, ArchivePath: "games.zip"}))
	}
	f.service = NewSeasonService(paths, nil, opts...)
	return f
}

func (f *serviceFixture) writeStats(t *testing.T, season *domain.Season) {
	t.Helper()
	require.NoError(t, dataprocessing.NewCalculator(f.paths, nil).Write(context.Background(), season))
}

func TestSeasonIsCachedWithinTTL(t *testing.T) {
	f := newServiceFixture(t, true)
	first := sampleSeason("run-1")
	second := sampleSeason("run-2")

	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{RunID: "run-1", Season: first}, nil).Once()
	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{RunID: "run-2", Season: second}, nil).Once()

	got, err := f.service.Season(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, got)

	f.clock.Advance(30 * time.Second)
	got, err = f.service.Season(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, got)
	f.runner.AssertNumberOfCalls(t, "Run", 1)

	f.clock.Advance(31 * time.Second)
	got, err = f.service.Season(context.Background())
	require.NoError(t, err)
	assert.Same(t, second, got)
	f.runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestSeasonRefreshFailureServesLastGood(t *testing.T) {
	f := newServiceFixture(t, true)
	good := sampleSeason("run-1")

	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{Season: good}, nil).Once()
	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{}, errors.New("archive missing")).Once()

	_, err := f.service.Season(context.Background())
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	got, err := f.service.Season(context.Background())
	require.NoError(t, err)
	assert.Same(t, good, got)

	info := f.service.Info()
	assert.True(t, info.Available)
	assert.Equal(t, "run-1", info.RunID)
	assert.Contains(t, info.LastError, "archive missing")
}

func TestSeasonColdFailureFallsBackToDisk(t *testing.T) {
	f := newServiceFixture(t, true)
	f.writeStats(t, sampleSeason(""))
	f.runner.On("Run", mock.Anything, mock.Anything).Return(nil, errors.New("archive missing"))

	got, err := f.service.Season(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Teams, 2)
	assert.Equal(t, "Flyers", got.Teams[0].Team)
	assert.Equal(t, 12.0, *got.Teams[0].AvgThrowDistance)
}

func TestSeasonWithoutData(t *testing.T) {
	f := newServiceFixture(t, false)

	_, err := f.service.Season(context.Background())
	assert.ErrorIs(t, err, ErrNoSeason)

	_, err = f.service.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshDisabled)
	assert.False(t, f.service.Info().Available)
}

func TestSeasonReadOnlyLoadsDisk(t *testing.T) {
	f := newServiceFixture(t, false)
	f.writeStats(t, sampleSeason(""))

	players, err := f.service.Players(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, players, 3)
}

func TestRefreshMapsOperationInProgress(t *testing.T) {
	f := newServiceFixture(t, true)
	f.runner.On("Run", mock.Anything, mock.Anything).Return(nil, operations.ErrOperationInProgress)

	_, err := f.service.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInProgress)
}

func TestRefreshLoadsDiskWhenResultHasNoSeason(t *testing.T) {
	f := newServiceFixture(t, true)
	f.writeStats(t, sampleSeason(""))
	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{RunID: "r"}, nil)

	result, err := f.service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r", result.RunID)
	assert.Equal(t, 2, f.service.Info().Teams)
}

func TestConcurrentRefreshesShareOneRun(t *testing.T) {
	f := newServiceFixture(t, true)
	started := make(chan struct{})
	release := make(chan struct{})

	f.runner.On("Run", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&operations.RunResult{RunID: "shared", Season: sampleSeason("shared")}, nil).Once()

	var wg sync.WaitGroup
	results := make([]*operations.RunResult, 4)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = f.service.Refresh(context.Background())
	}()
	<-started

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.service.Refresh(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	f.runner.AssertNumberOfCalls(t, "Run", 1)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "shared", r.RunID)
	}
}

func TestSeasonQueries(t *testing.T) {
	f := newServiceFixture(t, true)
	f.runner.On("Run", mock.Anything, mock.Anything).Return(&operations.RunResult{Season: sampleSeason("q")}, nil)
	ctx := context.Background()

	players, err := f.service.Players(ctx, "hammers")
	require.NoError(t, err)
	assert.Len(t, players, 2)

	games, err := f.service.PlayerGames(ctx, PlayerGameFilter{Team: "Hammers", Week: "2"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Owls @ Hammers", games[0].Match)

	teamGames, err := f.service.TeamGames(ctx, "Flyers")
	require.NoError(t, err)
	assert.Len(t, teamGames, 1)

	summaries, err := f.service.Games(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Len(t, summaries[0].Teams, 2)

	standings, err := f.service.Standings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hammers", standings[0].Team)
}
