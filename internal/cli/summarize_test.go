package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/typeramp/typeramp/internal/config"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/storage"
)

func storeRuns(t *testing.T, dir string, errorCounts ...int) {
	t.Helper()
	store := storage.NewLocal(dir)
	base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	for i, count := range errorCounts {
		run := &models.AnalysisRun{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Source:    "test",
			Summary: &models.Summary{
				TotalErrors: count,
				ByRule:      map[string]int{"reportGeneralTypeIssues": count},
				ByFile:      map[string]int{"a.py": count},
			},
			Ranking: &models.Ranking{Status: models.StatusRanked,
				Candidates: []models.Candidate{{File: "a.py", ErrorCount: count, DistinctRules: 1}}},
		}
		if err := store.SaveRun(run); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunSummarizeNoRuns(t *testing.T) {
	chdirTemp(t)
	withTestConfig(t, config.DefaultConfig())
	summarizeLastN = 0
	summarizeCompare = false
	summarizeFormat = "text"

	var err error
	out := captureStdout(t, func() {
		err = runSummarize(summarizeCmd, nil)
	})

	if err != nil {
		t.Fatalf("runSummarize: %v", err)
	}
	if !strings.Contains(out, "No stored runs found") {
		t.Errorf("output missing empty state:\n%s", out)
	}
}

func TestRunSummarizeTrend(t *testing.T) {
	dir := chdirTemp(t)
	c := config.DefaultConfig()
	c.StorageDir = dir
	withTestConfig(t, c)
	summarizeLastN = 0
	summarizeCompare = false
	summarizeFormat = "text"

	storeRuns(t, dir, 30, 20, 10)

	var err error
	out := captureStdout(t, func() {
		err = runSummarize(summarizeCmd, nil)
	})

	if err != nil {
		t.Fatalf("runSummarize: %v", err)
	}
	if !strings.Contains(out, "Runs Analyzed: 3") {
		t.Errorf("output missing run count:\n%s", out)
	}
	if !strings.Contains(out, "Total Errors: 10") {
		t.Errorf("output missing latest errors:\n%s", out)
	}
	if !strings.Contains(out, "improving") {
		t.Errorf("output missing trend direction:\n%s", out)
	}
	if !strings.Contains(out, "reportGeneralTypeIssues") {
		t.Errorf("output missing rule trend:\n%s", out)
	}
}

func TestRunSummarizeCompareNeedsTwoRuns(t *testing.T) {
	dir := chdirTemp(t)
	c := config.DefaultConfig()
	c.StorageDir = dir
	withTestConfig(t, c)
	summarizeCompare = true
	t.Cleanup(func() { summarizeCompare = false })

	storeRuns(t, dir, 5)

	var err error
	out := captureStdout(t, func() {
		err = runSummarize(summarizeCmd, nil)
	})

	if err != nil {
		t.Fatalf("runSummarize: %v", err)
	}
	if !strings.Contains(out, "Need at least 2 runs") {
		t.Errorf("output missing guidance:\n%s", out)
	}
}

func TestPrintSparklineRange(t *testing.T) {
	out := captureStdout(t, func() {
		printSparkline([]int{5, 3, 1})
	})
	if !strings.Contains(out, "[5 → 1]") {
		t.Errorf("sparkline missing range: %q", out)
	}
}
