package operations

import (
	"time"

	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// Strategy selects how raw game files are acquired
type Strategy string

const (
	// StrategyArchive extracts a local zip archive
	StrategyArchive Strategy = "archive"
	// StrategyRemote downloads a remote folder
	StrategyRemote Strategy = "remote"
)

// operation Step identifiers
const (
	StageIDExtract   = "extract_integrate"
	StageIDDownload  = "download"
	StageIDIntegrate = "integrate"
	StageIDAggregate = "aggregate"
)

// operation Step names
const (
	StageNameExtract   = "Archive Extraction"
	StageNameDownload  = "Remote Download"
	StageNameIntegrate = "Raw Data Integration"
	StageNameAggregate = "Statistics Aggregation"
)

// Config keys carrying request parameters
const (
	ConfigKeyArchivePath = "archive_path"
	ConfigKeyFolderID    = "folder_id"
)

// Context keys for data passed between steps
const (
	ContextKeyDownloadDir = "download_dir"
	ContextKeyDownloaded  = "downloaded_files"
	ContextKeyLoadReport  = "load_report"
	ContextKeySeason      = "season"
)

// WebSocket event types
const (
	EventTypeOperationStatus   = "operation:status"
	EventTypeOperationProgress = "operation:progress"
	EventTypeOperationComplete = "operation:complete"
	EventTypeOperationError    = "operation:error"
)

// Request describes one pipeline run
type Request struct {
	ID          string   `json:"id,omitempty"`
	Strategy    Strategy `json:"strategy"`
	ArchivePath string   `json:"archive_path,omitempty"`
	FolderID    string   `json:"folder_id,omitempty"`
}

// StepResult is the outcome of one step
type StepResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// RunResult is returned to programmatic callers of Manager.Run
type RunResult struct {
	RunID    string                     `json:"run_id"`
	Strategy Strategy                   `json:"strategy"`
	Status   OperationStatus            `json:"status"`
	Duration time.Duration              `json:"duration"`
	Steps    []StepResult               `json:"steps"`
	Report   *dataprocessing.LoadReport `json:"report,omitempty"`
	Season   *domain.Season             `json:"-"`
}
