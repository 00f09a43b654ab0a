package operations_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/internal/operations"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "season.zip")
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

func TestArchivePipelineEndToEnd(t *testing.T) {
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	archive := writeArchive(t, map[string]string{
		"Week 1/Rays @ Owls/Points.csv": "team,Scored?,Started on offense?,Defensive blocks,Turnovers\n" +
			"Rays,1,1,0,0\nOwls,1,0,1,2\n",
		"Week 1/Rays @ Owls/Passes.csv": "team,Thrower,Receiver,Turnover?,Huck?,Forward distance (yd)\n" +
			"Rays,Ann,Bo,0,1,40\nOwls,Cy,Di,0,0,8\n",
		"Week 1/Rays @ Owls/Player Stats.csv": "Player,team,Touches,Throws,Catches,Defensive blocks,Goals," +
			"Turnovers,Total completed throw gain (yd),Total caught pass gain (yd),Offense points played," +
			"Defense points played,Possessions initiated,Assists\n" +
			"Ann,Rays,2,1,1,0,0,0,40,0,1,0,1,1\n",
	})

	metrics, err := infrastructure.NewPipelineMetrics(nil)
	require.NoError(t, err)

	registry, err := operations.NewPipelineRegistry(operations.PipelineDeps{
		Paths:      paths,
		Integrator: dataprocessing.NewIntegrator(paths, nil),
		Aggregator: dataprocessing.NewCalculator(paths, nil),
		Options:    &operations.StageOptions{Metrics: metrics},
	})
	require.NoError(t, err)

	manager := operations.NewManager(registry, nil,
		operations.WithTracer(operations.NewOperationTracer(nil, metrics)))

	result, err := manager.Run(context.Background(), operations.Request{
		Strategy:    operations.StrategyArchive,
		ArchivePath: archive,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Season)
	require.Len(t, result.Season.Teams, 2)
	assert.Equal(t, "Owls", result.Season.Teams[0].Team)
	assert.Equal(t, "Rays", result.Season.Teams[1].Team)
	assert.Equal(t, 1, result.Season.Teams[1].Holds)
	assert.Equal(t, 3, result.Report.Loaded)
	assert.Contains(t, result.Describe(), "2 teams")

	for _, path := range []string{paths.TeamOverallCSV, paths.TeamGameCSV, paths.PlayerOverallCSV, paths.PlayerGameCSV} {
		assert.FileExists(t, path)
	}

	loaded, err := dataprocessing.LoadSeason(paths)
	require.NoError(t, err)
	assert.Equal(t, result.Season.Teams, loaded.Teams)
	assert.Equal(t, "Rays @ Owls", loaded.TeamGames[0].Match)
}

func TestRegistry(t *testing.T) {
	r := operations.NewRegistry()
	step := operations.NewAggregateStage(nil, nil)

	require.NoError(t, r.Register(step))
	assert.Error(t, r.Register(step))
	assert.Error(t, r.Register(nil))
	assert.Equal(t, []string{operations.StageIDAggregate}, r.List())

	got, err := r.Get(operations.StageIDAggregate)
	require.NoError(t, err)
	assert.Same(t, step, got)

	_, err = r.Get("missing")
	assert.Error(t, err)

	assert.Error(t, r.DefinePipeline(operations.StrategyArchive, "missing"))
	require.NoError(t, r.DefinePipeline(operations.StrategyArchive, operations.StageIDAggregate))

	steps, err := r.Pipeline(operations.StrategyArchive)
	require.NoError(t, err)
	assert.Len(t, steps, 1)

	_, err = r.Pipeline(operations.StrategyRemote)
	assert.ErrorIs(t, err, operations.ErrUnknownStrategy)
}

func TestStepStateTransitions(t *testing.T) {
	s := operations.NewStepState("x", "X")
	assert.Equal(t, operations.StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, operations.StepStatusActive, s.GetStatus())

	s.UpdateProgress(40, "working")
	assert.Equal(t, "working", s.Result().Message)

	s.Complete()
	r := s.Result()
	assert.Equal(t, operations.StepStatusCompleted, r.Status)
	assert.Equal(t, float64(100), s.Progress)
}

func TestStatusBroadcasterProgressIsMonotonic(t *testing.T) {
	rec := &snapshotRecorder{}
	b := operations.NewStatusBroadcaster(nil, rec)
	steps := []operations.Step{operations.NewAggregateStage(nil, nil)}

	b.CreateOperation("op", operations.StrategyArchive, steps)
	b.StartStep("op", operations.StageIDAggregate)
	b.UpdateStepProgress("op", operations.StageIDAggregate, 60, "half")
	b.UpdateStepProgress("op", operations.StageIDAggregate, 30, "late event")

	snap, ok := b.GetSnapshot("op")
	require.True(t, ok)
	assert.Equal(t, 60, snap.Steps[0].Progress)
	assert.Equal(t, "late event", snap.Steps[0].Message)
	assert.Equal(t, 60, snap.Progress)
	assert.Equal(t, "Statistics Aggregation", snap.CurrentStep)

	b.CompleteStep("op", operations.StageIDAggregate, "done")
	b.CompleteOperation("op", "ok")
	snap, _ = b.GetSnapshot("op")
	assert.Equal(t, 100, snap.Progress)
	assert.True(t, snap.Terminal())
	assert.NotNil(t, snap.CompletedAt)
}

func TestStatusBroadcasterCleanupOldOperations(t *testing.T) {
	b := operations.NewStatusBroadcaster(nil)
	steps := []operations.Step{operations.NewAggregateStage(nil, nil)}

	b.CreateOperation("old", operations.StrategyArchive, steps)
	b.CompleteOperation("old", "ok")
	b.UpdateStatus("old", func(s *operations.OperationSnapshot) {
		finished := time.Now().Add(-2 * time.Hour)
		s.CompletedAt = &finished
	})

	b.CreateOperation("running", operations.StrategyArchive, steps)
	b.StartOperation("running")

	b.CreateOperation("latest", operations.StrategyArchive, steps)
	b.FailOperation("latest", errors.New("boom"))

	b.CleanupOldOperations(time.Hour)

	_, ok := b.GetSnapshot("old")
	assert.False(t, ok)
	_, ok = b.GetSnapshot("running")
	assert.True(t, ok)
	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, "latest", latest.OperationID)
}

type recordingHub struct {
	events []string
}

func (h *recordingHub) BroadcastUpdate(eventType, step, status string, metadata any) {
	h.events = append(h.events, eventType+":"+status)
}

func TestHubReporter(t *testing.T) {
	hub := &recordingHub{}
	b := operations.NewStatusBroadcaster(nil, operations.NewHubReporter(hub))

	b.CreateOperation("op", operations.StrategyRemote, nil)
	b.StartOperation("op")
	b.FailOperation("op", assert.AnError)

	assert.Equal(t, []string{
		"operation:status:pending",
		"operation:progress:running",
		"operation:error:failed",
	}, hub.events)
}
