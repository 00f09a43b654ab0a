package remote

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/kevindiazor/ThePUL/internal/config"
)

// FolderMimeType identifies Drive folders in listings
const FolderMimeType = "application/vnd.google-apps.folder"

const listFields = "nextPageToken, files(id, name, mimeType, size)"

// File is a single entry of a folder listing
type File struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// IsFolder reports whether the entry is a sub-folder
func (f File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// FilePage is one page of a folder listing
type FilePage struct {
	Files         []File
	NextPageToken string
}

// DriveAPI is the subset of the Drive API the downloader needs
type DriveAPI interface {
	// ListFolder returns one page of the direct children of folderID.
	// An empty pageToken requests the first page.
	ListFolder(ctx context.Context, folderID, pageToken string) (*FilePage, error)
	// Download opens the content of fileID. Callers close the reader.
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

type driveService struct {
	files *drive.FilesService
}

// NewDriveAPI creates a Drive v3 client from the remote configuration. A
// credentials file takes precedence over an API key; with neither set the
// application default credentials are used.
func NewDriveAPI(ctx context.Context, cfg config.RemoteConfig, extra ...option.ClientOption) (DriveAPI, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &driveService{files: srv.Files}, nil
}

func (d *driveService) ListFolder(ctx context.Context, folderID, pageToken string) (*FilePage, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", strings.ReplaceAll(folderID, "'", `\'`))
	call := d.files.List().
		Q(query).
		Fields(listFields).
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}

	page := &FilePage{NextPageToken: list.NextPageToken, Files: make([]File, 0, len(list.Files))}
	for _, f := range list.Files {
		page.Files = append(page.Files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size})
	}
	return page, nil
}

func (d *driveService) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := d.files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return resp.Body, nil
}
