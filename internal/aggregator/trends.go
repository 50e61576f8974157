package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/typeramp/typeramp/internal/models"
)

// Trend compares the current analysis run against a previous one.
type Trend struct {
	Direction      string    `json:"direction"` // improving, degrading, stable
	ChangePercent  float64   `json:"change_percent"`
	PreviousErrors int       `json:"previous_errors"`
	CurrentErrors  int       `json:"current_errors"`
	ComparedWith   time.Time `json:"compared_with"`
	NewErrors      int       `json:"new_errors"`
	FixedErrors    int       `json:"fixed_errors"`
}

// RuleTrend tracks the per-rule error delta between the earliest and latest
// runs in an analysis window.
type RuleTrend struct {
	Rule           string  `json:"rule"`
	CurrentErrors  int     `json:"current_errors"`
	PreviousErrors int     `json:"previous_errors"`
	Change         int     `json:"change"` // positive = more errors
	ChangePercent  float64 `json:"change_percent"`
}

// TrendSummary is a historical view across stored runs.
type TrendSummary struct {
	TimeRange      string      `json:"time_range"`
	RunsAnalyzed   int         `json:"runs_analyzed"`
	ErrorSparkline []int       `json:"error_sparkline"`
	ByRule         []RuleTrend `json:"by_rule"`
}

// TrendAnalyzer derives trends from stored analysis runs.
type TrendAnalyzer struct{}

// NewTrendAnalyzer creates a new trend analyzer.
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

// CalculateTrend compares the current run with the previous one.
// Returns nil when there is no previous run to compare against.
func (t *TrendAnalyzer) CalculateTrend(current, previous *models.AnalysisRun) *Trend {
	if previous == nil {
		return nil
	}

	trend := &Trend{
		PreviousErrors: previous.Summary.TotalErrors,
		CurrentErrors:  current.Summary.TotalErrors,
		ComparedWith:   previous.Timestamp,
	}

	change := current.Summary.TotalErrors - previous.Summary.TotalErrors
	if previous.Summary.TotalErrors > 0 {
		trend.ChangePercent = float64(change) / float64(previous.Summary.TotalErrors) * 100.0
	}

	switch {
	case change < 0:
		trend.Direction = "improving"
		trend.FixedErrors = -change
	case change > 0:
		trend.Direction = "degrading"
		trend.NewErrors = change
	default:
		trend.Direction = "stable"
	}

	return trend
}

// AnalyzeLastNRuns builds a historical trend summary across runs, which must
// be ordered oldest first.
func (t *TrendAnalyzer) AnalyzeLastNRuns(runs []*models.AnalysisRun) *TrendSummary {
	if len(runs) == 0 {
		return nil
	}

	summary := &TrendSummary{
		RunsAnalyzed: len(runs),
	}

	if len(runs) > 1 {
		earliest := runs[0].Timestamp
		latest := runs[len(runs)-1].Timestamp
		days := int(latest.Sub(earliest).Hours() / 24)
		summary.TimeRange = fmt.Sprintf("Last %d days", days)
	} else {
		summary.TimeRange = "Single run"
	}

	summary.ErrorSparkline = make([]int, len(runs))
	for i, run := range runs {
		summary.ErrorSparkline[i] = run.Summary.TotalErrors
	}

	if len(runs) >= 2 {
		summary.ByRule = t.calculateRuleTrends(runs[0], runs[len(runs)-1])
	}

	return summary
}

// calculateRuleTrends computes per-rule deltas between two runs.
func (t *TrendAnalyzer) calculateRuleTrends(earliest, latest *models.AnalysisRun) []RuleTrend {
	rules := make(map[string]struct{})
	for rule := range earliest.Summary.ByRule {
		rules[rule] = struct{}{}
	}
	for rule := range latest.Summary.ByRule {
		rules[rule] = struct{}{}
	}

	trends := make([]RuleTrend, 0, len(rules))
	for rule := range rules {
		prev := earliest.Summary.ByRule[rule]
		cur := latest.Summary.ByRule[rule]
		rt := RuleTrend{
			Rule:           rule,
			CurrentErrors:  cur,
			PreviousErrors: prev,
			Change:         cur - prev,
		}
		if prev > 0 {
			rt.ChangePercent = float64(cur-prev) / float64(prev) * 100.0
		}
		trends = append(trends, rt)
	}

	// Worst movers first, then alphabetical for stable output.
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Change != trends[j].Change {
			return trends[i].Change > trends[j].Change
		}
		return trends[i].Rule < trends[j].Rule
	})

	return trends
}

// GetTrendIndicator returns a display arrow for a trend direction.
func GetTrendIndicator(direction string) string {
	switch direction {
	case "improving":
		return "↓"
	case "degrading":
		return "↑"
	default:
		return "→"
	}
}
