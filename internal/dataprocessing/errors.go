package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader is returned for source files without a header row
	ErrNoHeader = errors.New("no header row")
	// ErrMissingColumn is returned when a required column is absent
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned for a cell that cannot be read as its column type
	ErrInvalidValue = errors.New("invalid value")
	// ErrMalformedRow is returned for a row with more cells than the header
	ErrMalformedRow = errors.New("malformed row")
)

// FileError ties a load failure to the file that caused it
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
