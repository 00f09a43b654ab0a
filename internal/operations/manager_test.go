package operations_test

import (
	"bytes"
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

type mockIntegrator struct {
	mock.Mock
}

func (m *mockIntegrator) IntegrateArchive(ctx context.Context, zipPath string) (*dataprocessing.LoadReport, error) {
	args := m.Called(ctx, zipPath)
	report, _ := args.Get(0).(*dataprocessing.LoadReport)
	return report, args.Error(1)
}

func (m *mockIntegrator) IntegrateDirectory(ctx context.Context, dir string) (*dataprocessing.LoadReport, error) {
	args := m.Called(ctx, dir)
	report, _ := args.Get(0).(*dataprocessing.LoadReport)
	return report, args.Error(1)
}

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) Run(ctx context.Context) (*domain.Season, error) {
	args := m.Called(ctx)
	season, _ := args.Get(0).(*domain.Season)
	return season, args.Error(1)
}

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) DownloadFolder(ctx context.Context, folderID, localDir string) ([]string, error) {
	args := m.Called(ctx, folderID, localDir)
	paths, _ := args.Get(0).([]string)
	return paths, args.Error(1)
}

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []operations.OperationSnapshot
}

func (r *snapshotRecorder) Report(s operations.OperationSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *snapshotRecorder) last() operations.OperationSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots[len(r.snapshots)-1]
}

type fixture struct {
	paths      *config.Paths
	integrator *mockIntegrator
	aggregator *mockAggregator
	downloader *mockDownloader
	recorder   *snapshotRecorder
	manager    *operations.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	f := &fixture{
		paths:      paths,
		integrator: &mockIntegrator{},
		aggregator: &mockAggregator{},
		downloader: &mockDownloader{},
		recorder:   &snapshotRecorder{},
	}

	registry, err := operations.NewPipelineRegistry(operations.PipelineDeps{
		Paths:      paths,
		Integrator: f.integrator,
		Aggregator: f.aggregator,
		Downloader: f.downloader,
	})
	require.NoError(t, err)

	broadcaster := operations.NewStatusBroadcaster(nil, f.recorder)
	f.manager = operations.NewManager(registry, nil, operations.WithBroadcaster(broadcaster))
	return f
}

func TestManagerRunArchive(t *testing.T) {
	f := newFixture(t)
	report := &dataprocessing.LoadReport{Loaded: 4, Skipped: 1}
	season := &domain.Season{Teams: []domain.TeamStatsOverall{{Team: "A"}}}

	f.integrator.On("IntegrateArchive", mock.Anything, "games.zip").Return(report, nil)
	f.aggregator.On("Run", mock.Anything).Return(season, nil)

	result, err := f.manager.Run(context.Background(), operations.Request{
		ID:          "run-1",
		Strategy:    operations.StrategyArchive,
		ArchivePath: "games.zip",
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, operations.OperationStatusCompleted, result.Status)
	assert.Same(t, report, result.Report)
	assert.Same(t, season, result.Season)
	assert.Equal(t, "run-1", season.RunID)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, operations.StageIDExtract, result.Steps[0].ID)
	assert.Equal(t, operations.StepStatusCompleted, result.Steps[0].Status)
	assert.Equal(t, "4 files loaded, 1 skipped", result.Steps[0].Message)
	assert.Equal(t, operations.StepStatusCompleted, result.Steps[1].Status)

	last := f.recorder.last()
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, 100, last.Progress)
	assert.True(t, last.Terminal())

	f.integrator.AssertExpectations(t)
	f.aggregator.AssertExpectations(t)
}

func TestManagerRunRemote(t *testing.T) {
	f := newFixture(t)
	report := &dataprocessing.LoadReport{Loaded: 2}

	f.downloader.On("DownloadFolder", mock.Anything, "folder-1", f.paths.DownloadDir).
		Return([]string{"a.csv", "b.csv"}, nil)
	f.integrator.On("IntegrateDirectory", mock.Anything, f.paths.DownloadDir).Return(report, nil)
	f.aggregator.On("Run", mock.Anything).Return(&domain.Season{}, nil)

	result, err := f.manager.Run(context.Background(), operations.Request{
		Strategy: operations.StrategyRemote,
		FolderID: "folder-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, []string{operations.StageIDDownload, operations.StageIDIntegrate, operations.StageIDAggregate},
		[]string{result.Steps[0].ID, result.Steps[1].ID, result.Steps[2].ID})
	assert.DirExists(t, f.paths.DownloadDir)

	f.downloader.AssertExpectations(t)
	f.integrator.AssertExpectations(t)
}

func TestManagerStepFailureSkipsRemaining(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("corrupt archive")
	f.integrator.On("IntegrateArchive", mock.Anything, "games.zip").Return(nil, boom)

	result, err := f.manager.Run(context.Background(), operations.Request{
		Strategy:    operations.StrategyArchive,
		ArchivePath: "games.zip",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(err))

	assert.Equal(t, operations.OperationStatusFailed, result.Status)
	assert.Equal(t, operations.StepStatusFailed, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Error, "corrupt archive")
	assert.Equal(t, operations.StepStatusSkipped, result.Steps[1].Status)
	assert.Nil(t, result.Season)

	f.aggregator.AssertNotCalled(t, "Run", mock.Anything)
	assert.Equal(t, "failed", f.recorder.last().Status)
}

func TestManagerValidation(t *testing.T) {
	f := newFixture(t)

	result, err := f.manager.Run(context.Background(), operations.Request{Strategy: operations.StrategyArchive})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeValidation, operations.GetErrorType(err))
	assert.Equal(t, operations.StepStatusFailed, result.Steps[0].Status)

	f.integrator.AssertNotCalled(t, "IntegrateArchive", mock.Anything, mock.Anything)
}

func TestManagerUnknownStrategy(t *testing.T) {
	f := newFixture(t)

	result, err := f.manager.Run(context.Background(), operations.Request{Strategy: "ftp"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, operations.ErrUnknownStrategy)
}

func TestManagerCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.manager.Run(ctx, operations.Request{
		Strategy:    operations.StrategyArchive,
		ArchivePath: "games.zip",
	})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(err))
	assert.Equal(t, operations.OperationStatusCancelled, result.Status)
	for _, step := range result.Steps {
		assert.Equal(t, operations.StepStatusSkipped, step.Status)
	}
}

func TestManagerRejectsConcurrentRun(t *testing.T) {
	f := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})

	f.integrator.On("IntegrateArchive", mock.Anything, "games.zip").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&dataprocessing.LoadReport{}, nil)
	f.aggregator.On("Run", mock.Anything).Return(&domain.Season{}, nil)

	req := operations.Request{Strategy: operations.StrategyArchive, ArchivePath: "games.zip"}
	done := make(chan error, 1)
	go func() {
		_, err := f.manager.Run(context.Background(), req)
		done <- err
	}()

	<-started
	_, err := f.manager.Run(context.Background(), req)
	assert.ErrorIs(t, err, operations.ErrOperationInProgress)

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not finish")
	}
}

func TestConsoleReporter(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer
	f.manager.GetBroadcaster().AddReporter(operations.NewConsoleReporter(&out))

	f.integrator.On("IntegrateArchive", mock.Anything, "games.zip").
		Return(&dataprocessing.LoadReport{Loaded: 3}, nil)
	f.aggregator.On("Run", mock.Anything).Return(nil, errors.New("disk full"))

	_, err := f.manager.Run(context.Background(), operations.Request{
		Strategy:    operations.StrategyArchive,
		ArchivePath: "games.zip",
	})
	require.Error(t, err)

	text := out.String()
	assert.Contains(t, text, "[Archive Extraction] done: 3 files loaded, 0 skipped")
	assert.Contains(t, text, "[Statistics Aggregation] failed:")
	assert.Contains(t, text, "Pipeline failed")
	assert.Contains(t, text, "disk full")
}

func TestLatestSnapshot(t *testing.T) {
	f := newFixture(t)
	_, ok := f.manager.GetBroadcaster().Latest()
	assert.False(t, ok)

	f.integrator.On("IntegrateArchive", mock.Anything, "games.zip").Return(&dataprocessing.LoadReport{}, nil)
	f.aggregator.On("Run", mock.Anything).Return(&domain.Season{}, nil)

	result, err := f.manager.Run(context.Background(), operations.Request{
		Strategy:    operations.StrategyArchive,
		ArchivePath: "games.zip",
	})
	require.NoError(t, err)

	latest, ok := f.manager.GetBroadcaster().Latest()
	require.True(t, ok)
	assert.Equal(t, result.RunID, latest.OperationID)
	assert.Equal(t, operations.StrategyArchive, latest.Strategy)
	assert.NotNil(t, latest.CompletedAt)
}
