package aggregator

import (
	"testing"
	"time"

	"github.com/typeramp/typeramp/internal/models"
)

func runWith(ts time.Time, totalErrors int, byRule map[string]int) *models.AnalysisRun {
	return &models.AnalysisRun{
		Timestamp: ts,
		Summary: &models.Summary{
			TotalErrors: totalErrors,
			ByRule:      byRule,
		},
	}
}

func TestCalculateTrend(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		prevErrors    int
		curErrors     int
		wantDirection string
		wantNew       int
		wantFixed     int
	}{
		{"improving", 100, 80, "improving", 0, 20},
		{"degrading", 50, 65, "degrading", 15, 0},
		{"stable", 30, 30, "stable", 0, 0},
	}

	analyzer := NewTrendAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := runWith(base, tt.prevErrors, nil)
			cur := runWith(base.Add(24*time.Hour), tt.curErrors, nil)

			trend := analyzer.CalculateTrend(cur, prev)
			if trend == nil {
				t.Fatal("expected trend, got nil")
			}
			if trend.Direction != tt.wantDirection {
				t.Errorf("Direction = %q, want %q", trend.Direction, tt.wantDirection)
			}
			if trend.NewErrors != tt.wantNew || trend.FixedErrors != tt.wantFixed {
				t.Errorf("new/fixed = %d/%d, want %d/%d",
					trend.NewErrors, trend.FixedErrors, tt.wantNew, tt.wantFixed)
			}
		})
	}
}

func TestCalculateTrendNoPrevious(t *testing.T) {
	cur := runWith(time.Now(), 10, nil)
	if trend := NewTrendAnalyzer().CalculateTrend(cur, nil); trend != nil {
		t.Error("expected nil trend without a previous run")
	}
}

func TestAnalyzeLastNRuns(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	runs := []*models.AnalysisRun{
		runWith(base, 100, map[string]int{"ruleX": 60, "ruleY": 40}),
		runWith(base.Add(24*time.Hour), 80, map[string]int{"ruleX": 55, "ruleY": 25}),
		runWith(base.Add(48*time.Hour), 60, map[string]int{"ruleX": 30, "ruleY": 25, "ruleZ": 5}),
	}

	summary := NewTrendAnalyzer().AnalyzeLastNRuns(runs)
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.RunsAnalyzed != 3 {
		t.Errorf("RunsAnalyzed = %d, want 3", summary.RunsAnalyzed)
	}

	wantSpark := []int{100, 80, 60}
	if len(summary.ErrorSparkline) != len(wantSpark) {
		t.Fatalf("sparkline length = %d, want %d", len(summary.ErrorSparkline), len(wantSpark))
	}
	for i, v := range wantSpark {
		if summary.ErrorSparkline[i] != v {
			t.Errorf("sparkline[%d] = %d, want %d", i, summary.ErrorSparkline[i], v)
		}
	}

	// ruleZ appeared (change +5), ruleX dropped by 30, ruleY by 15.
	if len(summary.ByRule) != 3 {
		t.Fatalf("ByRule trends = %d, want 3", len(summary.ByRule))
	}
	if summary.ByRule[0].Rule != "ruleZ" || summary.ByRule[0].Change != 5 {
		t.Errorf("worst mover = %+v, want ruleZ +5", summary.ByRule[0])
	}
	if summary.ByRule[len(summary.ByRule)-1].Rule != "ruleX" {
		t.Errorf("best mover = %+v, want ruleX", summary.ByRule[len(summary.ByRule)-1])
	}
}

func TestAnalyzeLastNRunsEmpty(t *testing.T) {
	if got := NewTrendAnalyzer().AnalyzeLastNRuns(nil); got != nil {
		t.Error("expected nil summary for no runs")
	}
}

func TestGetTrendIndicator(t *testing.T) {
	if GetTrendIndicator("improving") != "↓" {
		t.Error("improving should point down (fewer errors)")
	}
	if GetTrendIndicator("degrading") != "↑" {
		t.Error("degrading should point up")
	}
	if GetTrendIndicator("stable") != "→" {
		t.Error("stable should be flat")
	}
}
