package storage

import (
	"time"

	"github.com/typeramp/typeramp/internal/models"
)

// Storage defines the interface for persisting analysis runs.
type Storage interface {
	// SaveRun stores a complete analysis run.
	SaveRun(run *models.AnalysisRun) error

	// LoadRun loads a run from a specific timestamp.
	LoadRun(timestamp time.Time) (*models.AnalysisRun, error)

	// GetLatestRun retrieves the most recent run.
	GetLatestRun() (*models.AnalysisRun, error)

	// GetLastNRuns retrieves the last N runs, oldest first.
	GetLastNRuns(n int) ([]*models.AnalysisRun, error)

	// ListRuns returns all available run timestamps, oldest first.
	ListRuns() ([]time.Time, error)
}
