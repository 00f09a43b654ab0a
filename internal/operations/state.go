package operations

import (
	"sync"
	"time"
)

// OperationStatus is the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState represents the complete state of a operation execution
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Strategy  Strategy        `json:"strategy"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	// Step states
	Steps map[string]*StepState `json:"steps"`

	// Context passes data between steps
	Context map[string]any `json:"context"`

	// Config holds the request parameters
	Config map[string]any `json:"config"`

	Error error `json:"-"`

	progress func(stepID string, progress float64, message string)
}

// NewOperationState creates a new operation state
func NewOperationState(id string, strategy Strategy) *OperationState {
	return &OperationState{
		ID:        id,
		Strategy:  strategy,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]any),
		Config:    make(map[string]any),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// SetStage sets the state for a specific Step
func (p *OperationState) SetStage(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stepID] = state
}

// GetStage returns the state for a specific Step
func (p *OperationState) GetStage(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stepID]
}

// SetContext sets a value passed to later steps
func (p *OperationState) SetContext(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// GetContext returns a value set by an earlier step
func (p *OperationState) GetContext(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.Context[key]
	return v, ok
}

// SetConfig sets a request parameter
func (p *OperationState) SetConfig(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Config[key] = value
}

// GetConfigString returns a string request parameter
func (p *OperationState) GetConfigString(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.Config[key].(string)
	return s
}

// ReportProgress updates a step's progress and forwards it to the
// operation's progress listeners
func (p *OperationState) ReportProgress(stepID string, progress float64, message string) {
	if s := p.GetStage(stepID); s != nil {
		s.UpdateProgress(progress, message)
	}

	p.mu.RLock()
	fn := p.progress
	p.mu.RUnlock()
	if fn != nil {
		fn(stepID, progress, message)
	}
}

func (p *OperationState) onProgress(fn func(stepID string, progress float64, message string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = fn
}

// Duration returns the operation run time
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
