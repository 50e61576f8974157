package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/typeramp/typeramp/internal/models"
)

// runSuffix marks analysis run files in the runs directory.
const runSuffix = "-analysis.json"

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	baseDir string
}

// NewLocal creates a local storage instance rooted at baseDir.
func NewLocal(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// SaveRun stores an analysis run to disk.
func (s *LocalStorage) SaveRun(run *models.AnalysisRun) error {
	runsDir := filepath.Join(s.baseDir, "runs")
	if err := os.MkdirAll(runsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	filename := s.formatTimestamp(run.Timestamp) + runSuffix
	path := filepath.Join(runsDir, filename)

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadRun loads a run from a specific timestamp.
func (s *LocalStorage) LoadRun(timestamp time.Time) (*models.AnalysisRun, error) {
	filename := s.formatTimestamp(timestamp) + runSuffix
	path := filepath.Join(s.baseDir, "runs", filename)
	return s.loadRunFromFile(path)
}

// GetLatestRun retrieves the most recent run.
func (s *LocalStorage) GetLatestRun() (*models.AnalysisRun, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("no runs found")
	}
	return s.LoadRun(timestamps[len(timestamps)-1])
}

// GetLastNRuns retrieves the last N runs, oldest first.
func (s *LocalStorage) GetLastNRuns(n int) ([]*models.AnalysisRun, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("no runs found")
	}

	start := len(timestamps) - n
	if start < 0 {
		start = 0
	}

	selected := timestamps[start:]
	runs := make([]*models.AnalysisRun, 0, len(selected))
	for _, timestamp := range selected {
		run, err := s.LoadRun(timestamp)
		if err != nil {
			// Skip runs that fail to load but continue with others.
			continue
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// ListRuns returns all available run timestamps sorted chronologically.
func (s *LocalStorage) ListRuns() ([]time.Time, error) {
	runsDir := filepath.Join(s.baseDir, "runs")

	if _, err := os.Stat(runsDir); os.IsNotExist(err) {
		return []time.Time{}, nil
	}

	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var timestamps []time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), runSuffix) {
			continue
		}

		timestampStr := strings.TrimSuffix(entry.Name(), runSuffix)
		timestamp, err := s.parseTimestamp(timestampStr)
		if err != nil {
			// Skip files with an unexpected name format.
			continue
		}
		timestamps = append(timestamps, timestamp)
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	return timestamps, nil
}

// GetStoragePath returns the storage directory path.
func (s *LocalStorage) GetStoragePath() string {
	return s.baseDir
}

func (s *LocalStorage) loadRunFromFile(path string) (*models.AnalysisRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var run models.AnalysisRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// formatTimestamp converts a time.Time to a filename-safe format.
func (s *LocalStorage) formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15-04-05")
}

// parseTimestamp converts the filename format back to a time.Time.
func (s *LocalStorage) parseTimestamp(str string) (time.Time, error) {
	return time.Parse("2006-01-02T15-04-05", str)
}
