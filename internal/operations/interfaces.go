package operations

import (
	"context"

	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

// WebSocketHub interface for sending WebSocket messages
type WebSocketHub interface {
	BroadcastUpdate(eventType, step, status string, metadata any)
}

// ProgressReporter receives a snapshot each time an operation changes
type ProgressReporter interface {
	Report(snapshot OperationSnapshot)
}

// Integrator builds the integrated raw tables
type Integrator interface {
	IntegrateArchive(ctx context.Context, zipPath string) (*dataprocessing.LoadReport, error)
	IntegrateDirectory(ctx context.Context, dir string) (*dataprocessing.LoadReport, error)
}

// Aggregator computes and persists the season tables
type Aggregator interface {
	Run(ctx context.Context) (*domain.Season, error)
}

// FolderDownloader copies the CSV files of a remote folder to a local
// directory
type FolderDownloader interface {
	DownloadFolder(ctx context.Context, folderID, localDir string) ([]string, error)
}
