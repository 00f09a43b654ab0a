package operations

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// StatusBroadcaster is the single authority for operation status. It keeps a
// snapshot per operation and hands every change to its reporters.
type StatusBroadcaster struct {
	mu         sync.Mutex
	operations map[string]*OperationSnapshot
	latest     string
	reporters  []ProgressReporter
	logger     *slog.Logger
}

// OperationSnapshot represents the complete state of an operation at a point in time
type OperationSnapshot struct {
	OperationID string         `json:"operation_id"`
	Strategy    Strategy       `json:"strategy"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	CurrentStep string         `json:"current_step"`
	Steps       []StepSnapshot `json:"steps"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// StepSnapshot represents the state of a single step
type StepSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Terminal reports whether the operation has finished
func (s OperationSnapshot) Terminal() bool {
	switch OperationStatus(s.Status) {
	case OperationStatusCompleted, OperationStatusFailed, OperationStatusCancelled:
		return true
	}
	return false
}

func (s *OperationSnapshot) clone() OperationSnapshot {
	c := *s
	c.Steps = slices.Clone(s.Steps)
	return c
}

// NewStatusBroadcaster creates a broadcaster forwarding to reporters
func NewStatusBroadcaster(logger *slog.Logger, reporters ...ProgressReporter) *StatusBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusBroadcaster{
		operations: make(map[string]*OperationSnapshot),
		reporters:  reporters,
		logger:     logger,
	}
}

// AddReporter registers another reporter
func (sb *StatusBroadcaster) AddReporter(r ProgressReporter) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.reporters = append(sb.reporters, r)
}

// UpdateStatus applies update to the operation's snapshot and broadcasts
// the result. Updates are serialized.
func (sb *StatusBroadcaster) UpdateStatus(operationID string, update func(*OperationSnapshot)) {
	sb.mu.Lock()

	snapshot, exists := sb.operations[operationID]
	if !exists {
		now := time.Now()
		snapshot = &OperationSnapshot{
			OperationID: operationID,
			Status:      string(OperationStatusPending),
			StartedAt:   now,
		}
		sb.operations[operationID] = snapshot
	}
	sb.latest = operationID

	update(snapshot)
	snapshot.UpdatedAt = time.Now()

	if len(snapshot.Steps) > 0 {
		total := 0
		for _, step := range snapshot.Steps {
			total += step.Progress
		}
		snapshot.Progress = total / len(snapshot.Steps)
	}

	if snapshot.Terminal() && snapshot.CompletedAt == nil {
		now := time.Now()
		snapshot.CompletedAt = &now
	}

	out := snapshot.clone()
	reporters := slices.Clone(sb.reporters)
	sb.mu.Unlock()

	for _, r := range reporters {
		r.Report(out)
	}
}

// CreateOperation initializes a new operation with the given steps
func (sb *StatusBroadcaster) CreateOperation(operationID string, strategy Strategy, steps []Step) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Strategy = strategy
		snapshot.Status = string(OperationStatusPending)
		snapshot.Steps = make([]StepSnapshot, len(steps))
		for i, step := range steps {
			snapshot.Steps[i] = StepSnapshot{
				ID:     step.ID(),
				Name:   step.Name(),
				Status: string(StepStatusPending),
			}
		}
		snapshot.Message = "Operation created"
	})
}

// StartOperation marks an operation as running
func (sb *StatusBroadcaster) StartOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusRunning)
		snapshot.Message = "Operation started"
	})
}

func (sb *StatusBroadcaster) updateStep(operationID, stepID string, update func(*StepSnapshot, *OperationSnapshot)) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		for i := range snapshot.Steps {
			if snapshot.Steps[i].ID == stepID {
				update(&snapshot.Steps[i], snapshot)
				return
			}
		}
		sb.logger.Warn("status update for unknown step",
			slog.String("operation_id", operationID),
			slog.String("step", stepID))
	})
}

// StartStep marks a step as running
func (sb *StatusBroadcaster) StartStep(operationID, stepID string) {
	sb.updateStep(operationID, stepID, func(step *StepSnapshot, op *OperationSnapshot) {
		step.Status = string(StepStatusActive)
		step.Progress = 0
		op.CurrentStep = step.Name
	})
}

// UpdateStepProgress updates a running step's progress. Progress never
// moves backwards.
func (sb *StatusBroadcaster) UpdateStepProgress(operationID, stepID string, progress int, message string) {
	progress = min(max(progress, 0), 99)
	sb.updateStep(operationID, stepID, func(step *StepSnapshot, _ *OperationSnapshot) {
		if progress > step.Progress {
			step.Progress = progress
		}
		step.Message = message
	})
}

// CompleteStep marks a step as completed
func (sb *StatusBroadcaster) CompleteStep(operationID, stepID, message string) {
	sb.updateStep(operationID, stepID, func(step *StepSnapshot, _ *OperationSnapshot) {
		step.Status = string(StepStatusCompleted)
		step.Progress = 100
		step.Message = message
	})
}

// FailStep marks a step as failed
func (sb *StatusBroadcaster) FailStep(operationID, stepID string, err error) {
	sb.updateStep(operationID, stepID, func(step *StepSnapshot, _ *OperationSnapshot) {
		step.Status = string(StepStatusFailed)
		step.Error = err.Error()
	})
}

// SkipStep marks a step as skipped
func (sb *StatusBroadcaster) SkipStep(operationID, stepID, reason string) {
	sb.updateStep(operationID, stepID, func(step *StepSnapshot, _ *OperationSnapshot) {
		step.Status = string(StepStatusSkipped)
		step.Message = reason
	})
}

// CompleteOperation marks an operation as completed
func (sb *StatusBroadcaster) CompleteOperation(operationID, message string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusCompleted)
		snapshot.CurrentStep = ""
		snapshot.Message = message
	})
}

// FailOperation marks an operation as failed
func (sb *StatusBroadcaster) FailOperation(operationID string, err error) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusFailed)
		snapshot.Error = err.Error()
		snapshot.CurrentStep = ""
	})
}

// CancelOperation marks an operation as cancelled
func (sb *StatusBroadcaster) CancelOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusCancelled)
		snapshot.CurrentStep = ""
		snapshot.Message = "Operation cancelled"
	})
}

// GetSnapshot returns the current snapshot for an operation
func (sb *StatusBroadcaster) GetSnapshot(operationID string) (OperationSnapshot, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, exists := sb.operations[operationID]
	if !exists {
		return OperationSnapshot{}, false
	}
	return snapshot.clone(), true
}

// Latest returns the snapshot of the most recently updated operation
func (sb *StatusBroadcaster) Latest() (OperationSnapshot, bool) {
	sb.mu.Lock()
	id := sb.latest
	sb.mu.Unlock()
	if id == "" {
		return OperationSnapshot{}, false
	}
	return sb.GetSnapshot(id)
}

// CleanupOldOperations removes finished operations older than maxAge
func (sb *StatusBroadcaster) CleanupOldOperations(maxAge time.Duration) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	now := time.Now()
	for id, snapshot := range sb.operations {
		if id == sb.latest || !snapshot.Terminal() || snapshot.CompletedAt == nil {
			continue
		}
		if now.Sub(*snapshot.CompletedAt) > maxAge {
			delete(sb.operations, id)
			sb.logger.Debug("cleaned up old operation",
				slog.String("operation_id", id),
				slog.String("status", snapshot.Status))
		}
	}
}
