package operations

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleReporter prints step transitions as plain lines, for the CLI
type ConsoleReporter struct {
	mu   sync.Mutex
	out  io.Writer
	last map[string]string
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out, last: make(map[string]string)}
}

// Report prints steps whose status or message changed since the last call
func (c *ConsoleReporter) Report(snapshot OperationSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, step := range snapshot.Steps {
		line := c.stepLine(step)
		key := snapshot.OperationID + "/" + step.ID
		if line == "" || c.last[key] == line {
			continue
		}
		c.last[key] = line
		fmt.Fprintln(c.out, line)
	}

	if snapshot.Terminal() {
		key := snapshot.OperationID
		line := fmt.Sprintf("Pipeline %s", snapshot.Status)
		if snapshot.Error != "" {
			line += ": " + snapshot.Error
		}
		if c.last[key] != line {
			c.last[key] = line
			fmt.Fprintln(c.out, line)
		}
	}
}

func (c *ConsoleReporter) stepLine(step StepSnapshot) string {
	switch StepStatus(step.Status) {
	case StepStatusActive:
		if step.Message != "" {
			return fmt.Sprintf("[%s] %3d%% %s", step.Name, step.Progress, step.Message)
		}
		return fmt.Sprintf("[%s] started", step.Name)
	case StepStatusCompleted:
		return fmt.Sprintf("[%s] done: %s", step.Name, step.Message)
	case StepStatusFailed:
		return fmt.Sprintf("[%s] failed: %s", step.Name, step.Error)
	case StepStatusSkipped:
		return fmt.Sprintf("[%s] skipped: %s", step.Name, step.Message)
	}
	return ""
}

// HubReporter forwards snapshots to a WebSocket hub
type HubReporter struct {
	hub WebSocketHub
}

// NewHubReporter creates a reporter broadcasting through hub
func NewHubReporter(hub WebSocketHub) *HubReporter {
	return &HubReporter{hub: hub}
}

// Report broadcasts the snapshot under the event type matching its state
func (h *HubReporter) Report(snapshot OperationSnapshot) {
	if h.hub == nil {
		return
	}
	eventType := EventTypeOperationProgress
	switch OperationStatus(snapshot.Status) {
	case OperationStatusCompleted:
		eventType = EventTypeOperationComplete
	case OperationStatusFailed, OperationStatusCancelled:
		eventType = EventTypeOperationError
	case OperationStatusPending:
		eventType = EventTypeOperationStatus
	}
	h.hub.BroadcastUpdate(eventType, snapshot.CurrentStep, snapshot.Status, snapshot)
}

// ReporterFunc adapts a function to ProgressReporter
type ReporterFunc func(OperationSnapshot)

// Report calls f
func (f ReporterFunc) Report(snapshot OperationSnapshot) {
	f(snapshot)
}
