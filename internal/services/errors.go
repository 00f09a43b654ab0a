package services

import "errors"

// Season service errors
var (
	// ErrNoSeason is returned when no aggregated statistics exist yet
	ErrNoSeason = errors.New("no season statistics available")

	// ErrRefreshInProgress is returned when a pipeline run outside the
	// service already holds the manager
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrRefreshDisabled is returned by a read-only service
	ErrRefreshDisabled = errors.New("refresh is not configured")

	// ErrInvalidInput marks bad query parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrOperationNotFound is returned when no pipeline run has been recorded
	ErrOperationNotFound = errors.New("operation not found")
)
