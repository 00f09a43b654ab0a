package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/kevindiazor/ThePUL/internal/config"
)

// Downloader copies the CSV files of a remote folder into a local directory
type Downloader struct {
	api       DriveAPI
	limiter   *rate.Limiter
	recursive bool
	logger    *slog.Logger
}

// Option configures a Downloader
type Option func(*Downloader)

// WithRecursive walks sub-folders, mirroring their names locally
func WithRecursive(recursive bool) Option {
	return func(d *Downloader) {
		d.recursive = recursive
	}
}

// WithRateLimit paces API requests to rps with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(d *Downloader) {
		if rps <= 0 {
			d.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		d.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDownloader creates a downloader on top of api
func NewDownloader(api DriveAPI, opts ...Option) *Downloader {
	d := &Downloader{
		api:     api,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "remote")
	return d
}

// NewFromConfig builds a Drive-backed downloader from configuration
func NewFromConfig(ctx context.Context, remote config.RemoteConfig, recursive bool, logger *slog.Logger) (*Downloader, error) {
	api, err := NewDriveAPI(ctx, remote)
	if err != nil {
		return nil, err
	}
	return NewDownloader(api,
		WithRecursive(recursive),
		WithRateLimit(remote.RequestsPerSecond, remote.Burst),
		WithLogger(logger),
	), nil
}

// DownloadFolder lists folderID page by page, downloads every .csv file into
// localDir and returns the local paths in download order. Files are fetched
// one at a time. The first failed download aborts the whole call.
func (d *Downloader) DownloadFolder(ctx context.Context, folderID, localDir string) ([]string, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folder id is required")
	}
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", localDir, err)
	}

	var downloaded []string
	if err := d.walk(ctx, folderID, localDir, &downloaded); err != nil {
		return downloaded, err
	}

	d.logger.InfoContext(ctx, "Remote folder downloaded",
		slog.String("folder_id", folderID),
		slog.String("local_dir", localDir),
		slog.Int("files", len(downloaded)))
	return downloaded, nil
}

func (d *Downloader) walk(ctx context.Context, folderID, localDir string, downloaded *[]string) error {
	var subfolders []File

	pageToken := ""
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		page, err := d.api.ListFolder(ctx, folderID, pageToken)
		if err != nil {
			return err
		}

		for _, f := range page.Files {
			switch {
			case f.IsFolder():
				if d.recursive {
					subfolders = append(subfolders, f)
				}
			case isCSV(f.Name):
				path, err := d.downloadFile(ctx, f, localDir)
				if err != nil {
					return err
				}
				*downloaded = append(*downloaded, path)
			default:
				d.logger.DebugContext(ctx, "Skipping non-CSV entry", slog.String("name", f.Name))
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	for _, sub := range subfolders {
		dir := filepath.Join(localDir, safeName(sub.Name))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := d.walk(ctx, sub.ID, dir, downloaded); err != nil {
			return err
		}
	}
	return nil
}

func (d *Downloader) downloadFile(ctx context.Context, f File, localDir string) (string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := d.api.Download(ctx, f.ID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	path := filepath.Join(localDir, safeName(f.Name))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.Copy(out, body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	d.logger.DebugContext(ctx, "Downloaded file",
		slog.String("name", f.Name),
		slog.String("path", path),
		slog.Int64("bytes", n))
	return path, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// safeName keeps a remote name inside its local directory
func safeName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
