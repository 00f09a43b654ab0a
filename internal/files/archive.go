package files

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeArchivePath is returned for archive entries that would land
// outside the extraction directory.
var ErrUnsafeArchivePath = errors.New("archive entry escapes destination")

// ExtractZip unpacks the archive at zipPath into destDir, preserving the
// folder structure. destDir is created when missing. It returns the number
// of files written.
func ExtractZip(ctx context.Context, zipPath, destDir string) (int, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	dest, err := filepath.Abs(destDir)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve destination %s: %w", destDir, err)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	written := 0
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		target, err := entryTarget(dest, entry.Name)
		if err != nil {
			return written, err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := extractEntry(entry, target); err != nil {
			return written, err
		}
		written++
	}

	slog.Debug("Archive extracted",
		slog.String("archive", zipPath),
		slog.String("destination", dest),
		slog.Int("files", written))

	return written, nil
}

func entryTarget(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}
	return target, nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	return dst.Close()
}
