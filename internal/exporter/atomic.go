package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// AtomicSet stages several output files and publishes them together.
// Until Commit, the destination files are untouched; Abort discards staged
// content. A set is not safe for concurrent use.
type AtomicSet struct {
	staged []stagedFile
	logger *slog.Logger
	done   bool
	rename func(oldpath, newpath string) error
}

type stagedFile struct {
	tmp    string
	dest   string
	backup string
}

// NewAtomicSet creates an empty set
func NewAtomicSet(logger *slog.Logger) *AtomicSet {
	if logger == nil {
		logger = slog.Default()
	}
	return &AtomicSet{logger: logger.With("component", "exporter"), rename: os.Rename}
}

// Stage writes options as CSV to a temporary file next to dest
func (s *AtomicSet) Stage(dest string, options WriteOptions) error {
	return s.StageFunc(dest, func(w io.Writer) error {
		return Encode(w, options)
	})
}

// StageFunc writes arbitrary content produced by write to a temporary file
// next to dest
func (s *AtomicSet) StageFunc(dest string, write func(io.Writer) error) error {
	if s.done {
		return errors.New("atomic set already finished")
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", dest, err)
	}
	s.staged = append(s.staged, stagedFile{tmp: tmp.Name(), dest: dest})

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staged %s: %w", dest, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set mode on staged %s: %w", dest, err)
	}
	return nil
}

// Commit renames every staged file onto its destination. Existing
// destinations are moved aside first; if any rename fails, files already
// published are removed and the previous destinations are restored, so
// either the whole set is published or none of it.
func (s *AtomicSet) Commit() error {
	if s.done {
		return errors.New("atomic set already finished")
	}
	s.done = true

	for i := range s.staged {
		f := &s.staged[i]
		if _, err := os.Lstat(f.dest); err != nil {
			continue
		}
		f.backup = f.tmp + ".prev"
		if err := s.rename(f.dest, f.backup); err != nil {
			f.backup = ""
			s.restore(s.staged[:i], 0)
			s.cleanup(s.staged)
			return fmt.Errorf("failed to move aside %s: %w", f.dest, err)
		}
	}

	for i, f := range s.staged {
		if err := s.rename(f.tmp, f.dest); err != nil {
			s.restore(s.staged, i)
			s.cleanup(s.staged[i:])
			return fmt.Errorf("failed to publish %s: %w", f.dest, err)
		}
		s.logger.Debug("Published output", slog.String("path", f.dest))
	}

	for _, f := range s.staged {
		if f.backup == "" {
			continue
		}
		if err := os.Remove(f.backup); err != nil {
			s.logger.Warn("Failed to remove previous output",
				slog.String("path", f.backup),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// restore unpublishes the first published files and moves every backup
// back onto its destination
func (s *AtomicSet) restore(files []stagedFile, published int) {
	for i, f := range files {
		if i < published {
			if err := os.Remove(f.dest); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("Failed to unpublish output",
					slog.String("path", f.dest),
					slog.String("error", err.Error()))
			}
		}
		if f.backup == "" {
			continue
		}
		if err := s.rename(f.backup, f.dest); err != nil {
			s.logger.Error("Failed to restore previous output",
				slog.String("path", f.dest),
				slog.String("backup", f.backup),
				slog.String("error", err.Error()))
		}
	}
}

// Abort removes every staged file. Safe to call after Commit.
func (s *AtomicSet) Abort() {
	if s.done {
		return
	}
	s.done = true
	s.cleanup(s.staged)
}

// Len returns the number of staged files
func (s *AtomicSet) Len() int {
	return len(s.staged)
}

func (s *AtomicSet) cleanup(files []stagedFile) {
	for _, f := range files {
		if err := os.Remove(f.tmp); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove staged file",
				slog.String("path", f.tmp),
				slog.String("error", err.Error()))
		}
	}
}
