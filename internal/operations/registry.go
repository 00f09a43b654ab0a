package operations

import (
	"fmt"
	"sync"
)

// Registry manages registered operation steps and the step sequence of each
// strategy
type Registry struct {
	mu        sync.RWMutex
	steps     map[string]Step
	order     []string
	pipelines map[Strategy][]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		steps:     make(map[string]Step),
		pipelines: make(map[Strategy][]string),
	}
}

// Register adds a Step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a Step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("step with ID %s not found", id)
	}
	return step, nil
}

// List returns registered step IDs in registration order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// DefinePipeline sets the ordered step IDs run for strategy. Every step must
// already be registered.
func (r *Registry) DefinePipeline(strategy Strategy, stepIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range stepIDs {
		if _, ok := r.steps[id]; !ok {
			return fmt.Errorf("pipeline %s: step with ID %s not found", strategy, id)
		}
	}
	r.pipelines[strategy] = append([]string(nil), stepIDs...)
	return nil
}

// Pipeline returns the steps of strategy in execution order
func (r *Registry) Pipeline(strategy Strategy) ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.pipelines[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		steps = append(steps, r.steps[id])
	}
	return steps, nil
}
