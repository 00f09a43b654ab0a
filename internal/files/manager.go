package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevindiazor/ThePUL/internal/config"
)

// Manager provides file management operations scoped to the work directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With("component", "files")}
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
	}
	return nil
}

// ResetDirectory removes everything below path and recreates it empty.
// Stale files from an earlier extraction or download never leak into a run.
// Only directories inside the work directory may be reset.
func (m *Manager) ResetDirectory(path string) error {
	fullPath := m.resolvePath(path)

	rel, err := filepath.Rel(m.paths.WorkDir, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to reset %s: outside work directory %s", fullPath, m.paths.WorkDir)
	}

	m.logger.Debug("Resetting directory", slog.String("path", fullPath))

	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("failed to clear directory %s: %w", fullPath, err)
	}
	return m.EnsureDirectory(fullPath)
}

// resolvePath resolves a path relative to the work directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.paths.WorkDir, path)
}
