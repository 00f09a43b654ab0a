package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// Manager orchestrates pipeline runs. One run executes at a time.
type Manager struct {
	registry    *Registry
	broadcaster *StatusBroadcaster
	tracer      *OperationTracer
	logger      *slog.Logger

	run sync.Mutex
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithTracer instruments runs with tracer
func WithTracer(tracer *OperationTracer) ManagerOption {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithBroadcaster replaces the default status broadcaster
func WithBroadcaster(b *StatusBroadcaster) ManagerOption {
	return func(m *Manager) {
		m.broadcaster = b
	}
}

// NewManager creates a manager running the pipelines of registry
func NewManager(registry *Registry, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		registry: registry,
		logger:   logger.With("component", "operations"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.broadcaster == nil {
		m.broadcaster = NewStatusBroadcaster(m.logger)
	}
	if m.tracer == nil {
		m.tracer = NewOperationTracer(nil, nil)
	}
	return m
}

// snapshotRetention is how long finished runs stay queryable. The latest
// run is always kept.
const snapshotRetention = 24 * time.Hour

// GetBroadcaster returns the status broadcaster
func (m *Manager) GetBroadcaster() *StatusBroadcaster {
	return m.broadcaster
}

// Run executes the pipeline of req.Strategy. The returned result is non-nil
// whenever the run started, including failed runs. ErrOperationInProgress is
// returned without a result when another run holds the manager.
func (m *Manager) Run(ctx context.Context, req Request) (*RunResult, error) {
	if !m.run.TryLock() {
		return nil, ErrOperationInProgress
	}
	defer m.run.Unlock()

	steps, err := m.registry.Pipeline(req.Strategy)
	if err != nil {
		return nil, err
	}

	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID, req.Strategy)
	state.SetConfig(ConfigKeyArchivePath, req.ArchivePath)
	state.SetConfig(ConfigKeyFolderID, req.FolderID)
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}
	state.onProgress(func(stepID string, progress float64, message string) {
		m.broadcaster.UpdateStepProgress(req.ID, stepID, int(progress), message)
	})

	m.broadcaster.CreateOperation(req.ID, req.Strategy, steps)

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, req.Strategy)

	state.Start()
	m.broadcaster.StartOperation(req.ID)
	m.logger.InfoContext(ctx, "Pipeline started",
		slog.String("operation_id", req.ID),
		slog.String("strategy", string(req.Strategy)),
		slog.Int("steps", len(steps)))

	err = m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
		m.broadcaster.CompleteOperation(req.ID, "Pipeline completed successfully")
		m.logger.InfoContext(ctx, "Pipeline completed",
			slog.String("operation_id", req.ID),
			slog.Duration("duration", state.Duration()))
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel()
		m.broadcaster.CancelOperation(req.ID)
		m.logger.WarnContext(ctx, "Pipeline cancelled",
			slog.String("operation_id", req.ID))
	default:
		state.Fail(err)
		m.broadcaster.FailOperation(req.ID, err)
		m.logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("operation_id", req.ID),
			slog.String("error", err.Error()))
	}

	m.tracer.RecordOperationCompletion(ctx, span, req.Strategy, state.Duration(), err)
	m.broadcaster.CleanupOldOperations(snapshotRetention)

	return m.createResult(state, steps), err
}

// executeSequential executes steps one by one, skipping the rest after a failure
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), ctxErr)
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], "previous step failed")
			return err
		}
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		m.broadcaster.FailStep(state.ID, step.ID(), err)
		return err
	}

	ctx, span := m.tracer.TraceStageExecution(ctx, state.ID, step.ID())
	stepState.Start()
	m.broadcaster.StartStep(state.ID, step.ID())

	m.logger.InfoContext(ctx, "Step started",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()))

	err := step.Execute(ctx, state)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			err = NewCancellationError(step.ID(), err)
		} else {
			err = NewExecutionError(step.ID(), err)
		}
		stepState.Fail(err)
		m.broadcaster.FailStep(state.ID, step.ID(), err)
	} else {
		stepState.Complete()
		m.broadcaster.CompleteStep(state.ID, step.ID(), stepState.Result().Message)
	}

	m.tracer.RecordStageCompletion(ctx, span, step.ID(), stepState.Duration(), err)

	m.logger.InfoContext(ctx, "Step finished",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.String("status", string(stepState.GetStatus())),
		slog.Duration("duration", stepState.Duration()))

	return err
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
			m.broadcaster.SkipStep(state.ID, step.ID(), reason)
		}
	}
}

func (m *Manager) createResult(state *OperationState, steps []Step) *RunResult {
	result := &RunResult{
		RunID:    state.ID,
		Strategy: state.Strategy,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    make([]StepResult, 0, len(steps)),
	}
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil {
			result.Steps = append(result.Steps, s.Result())
		}
	}
	if v, ok := state.GetContext(ContextKeyLoadReport); ok {
		result.Report, _ = v.(*dataprocessing.LoadReport)
	}
	if v, ok := state.GetContext(ContextKeySeason); ok {
		result.Season, _ = v.(*domain.Season)
	}
	return result
}

// Describe returns a one-line summary of a result for console output
func (r *RunResult) Describe() string {
	if r == nil {
		return "no run"
	}
	s := fmt.Sprintf("run %s (%s) %s in %s", r.RunID, r.Strategy, r.Status, r.Duration.Round(time.Millisecond))
	if r.Report != nil {
		s += fmt.Sprintf(", %d files loaded, %d skipped", r.Report.Loaded, r.Report.Skipped)
	}
	if r.Season != nil {
		s += fmt.Sprintf(", %d teams, %d players", len(r.Season.Teams), len(r.Season.Players))
	}
	return s
}
