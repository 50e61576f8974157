package tui

import (
	"fmt"
	"strings"

	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

// renderHeader produces the header string from run summary data.
func renderHeader(run *models.AnalysisRun, trend *aggregator.Trend, sparkline []int, width int) string {
	var b strings.Builder

	summary := run.Summary

	// Line 1: title and error count
	errText := fmt.Sprintf("%d error(s)", summary.TotalErrors)
	if summary.TotalErrors == 0 {
		errText = trendStyle("improving").Render("all clear")
	} else {
		errText = severityStyle("error").Render(errText)
	}
	b.WriteString(fmt.Sprintf("Typeramp  %s", errText))

	if trend != nil {
		indicator := aggregator.GetTrendIndicator(trend.Direction)
		styled := trendStyle(trend.Direction).Render(
			fmt.Sprintf("%s %.1f%%", indicator, trend.ChangePercent))
		b.WriteString("  " + styled)
	}
	b.WriteString("\n")

	// Line 2: files and severity breakdown
	b.WriteString(fmt.Sprintf("Files: %d  ", len(summary.ByFile)))
	sevParts := []string{
		severityStyle("error").Render(fmt.Sprintf("E:%d", summary.TotalErrors)),
		severityStyle("warning").Render(fmt.Sprintf("W:%d", summary.TotalWarnings)),
		severityStyle("information").Render(fmt.Sprintf("I:%d", summary.TotalInformation)),
	}
	b.WriteString(strings.Join(sevParts, "  "))
	b.WriteString("\n")

	// Line 3: where to start
	if run.Ranking != nil && !run.Ranking.AllClear() && len(run.Ranking.Candidates) > 0 {
		first := run.Ranking.Candidates[0]
		b.WriteString(fmt.Sprintf("Start with: %s (%d error(s), %d rule(s))",
			first.File, first.ErrorCount, first.DistinctRules))
	}
	b.WriteString("\n")

	// Line 4: sparkline
	if len(sparkline) > 0 {
		b.WriteString("Trend: ")
		b.WriteString(renderSparkline(sparkline))
	}

	return styleHeader.Width(width).Render(b.String())
}

// renderSparkline converts an int slice to a unicode sparkline string.
func renderSparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}

	bars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		if max == min {
			b.WriteRune(bars[len(bars)/2])
		} else {
			normalized := float64(v-min) / float64(max-min)
			idx := int(normalized * float64(len(bars)-1))
			b.WriteRune(bars[idx])
		}
	}

	b.WriteString(fmt.Sprintf(" [%d→%d]", values[0], values[len(values)-1]))
	return b.String()
}
