package reporter

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
)

// topN caps how many rows the rule and file tables print.
const topN = 10

// Report bundles everything the renderers format. Rendering is pure: the
// caller decides where the output goes.
type Report struct {
	Summary  *models.Summary
	Ranking  *models.Ranking
	Strategy *aggregator.Strategy
	Trend    *aggregator.Trend
}

// TextReporter generates human-readable text reports.
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{writer: writer}
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen, color.Bold)
	dimColor  = color.New(color.Faint)
)

// Generate renders the report as text.
func (r *TextReporter) Generate(report *Report) error {
	r.printHeader()
	r.printf("Generated: %s\n\n", formatTimestamp(report.Summary.GeneratedAt))

	r.printTotals(report.Summary, report.Trend)

	if report.Ranking != nil && report.Ranking.AllClear() {
		r.printf("%s\n", okColor.Sprint("All clear. No type errors remain."))
		return nil
	}

	r.printByRule(report.Summary)
	r.printByFile(report.Summary)

	if report.Ranking != nil {
		r.printCandidates(report.Ranking)
	}
	if report.Strategy != nil && len(report.Strategy.Suggestions) > 0 {
		r.printStrategy(report.Strategy)
	}

	return nil
}

func (r *TextReporter) printHeader() {
	r.printf("==================================================\n")
	r.printf("  Type Check Analysis\n")
	r.printf("==================================================\n\n")
}

func (r *TextReporter) printTotals(summary *models.Summary, trend *aggregator.Trend) {
	r.printf("Total: %s, %s\n",
		errColor.Sprintf("%d errors", summary.TotalErrors),
		warnColor.Sprintf("%d warnings", summary.TotalWarnings))

	if trend != nil {
		indicator := aggregator.GetTrendIndicator(trend.Direction)
		r.printf("Trend: %s %s (%d -> %d, %.1f%%)\n",
			trend.Direction, indicator,
			trend.PreviousErrors, trend.CurrentErrors, trend.ChangePercent)
	}
	r.printf("\n")
}

// printByRule prints the error-by-rule table with percentages and hints.
func (r *TextReporter) printByRule(summary *models.Summary) {
	if len(summary.ByRule) == 0 {
		return
	}

	r.printf("By Error Type:\n")
	r.printf("--------------------------------------------------\n")

	rules := sortedByCount(summary.ByRule)
	shown := rules
	if len(shown) > topN {
		shown = shown[:topN]
	}

	for _, entry := range shown {
		pct := float64(entry.count) / float64(summary.TotalErrors) * 100
		r.printf("  %-36s %4d (%4.1f%%)\n", entry.key, entry.count, pct)
		if hint := aggregator.RuleHint(entry.key); hint != "" {
			r.printf("    %s\n", dimColor.Sprint(hint))
		}
	}
	if len(rules) > topN {
		r.printf("  ... and %d more types\n", len(rules)-topN)
	}
	r.printf("\n")
}

// printByFile prints the error-by-file table.
func (r *TextReporter) printByFile(summary *models.Summary) {
	if len(summary.ByFile) == 0 {
		return
	}

	r.printf("By File (top %d):\n", topN)
	r.printf("--------------------------------------------------\n")

	files := sortedByCount(summary.ByFile)
	shown := files
	if len(shown) > topN {
		shown = shown[:topN]
	}
	for _, entry := range shown {
		r.printf("  %-40s %4d error(s)\n", entry.key, entry.count)
	}
	if len(files) > topN {
		r.printf("  ... and %d more files\n", len(files)-topN)
	}
	r.printf("\n")
}

// printCandidates prints the ranked list with the rationale tuple.
func (r *TextReporter) printCandidates(ranking *models.Ranking) {
	r.printf("Recommended Order:\n")
	r.printf("--------------------------------------------------\n")

	for i, c := range ranking.Candidates {
		r.printf("  %d. %s\n", i+1, c.File)
		r.printf("     %d error(s), %d rule category(ies), score %d\n",
			c.ErrorCount, c.DistinctRules, c.RankScore)
	}
	r.printf("\n")
}

func (r *TextReporter) printStrategy(strategy *aggregator.Strategy) {
	r.printf("Suggested Strategy:\n")
	r.printf("--------------------------------------------------\n")
	for i, suggestion := range strategy.Suggestions {
		r.printf("  %d. %s\n", i+1, suggestion)
	}
	r.printf("\n")
}

func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}

// countEntry pairs a map key with its count for sorted display.
type countEntry struct {
	key   string
	count int
}

// sortedByCount returns map entries ordered by count descending, then key.
func sortedByCount(m map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for key, count := range m {
		entries = append(entries, countEntry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
