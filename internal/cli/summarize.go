package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/reporter"
	"github.com/typeramp/typeramp/internal/storage"
)

var (
	// Summarize command flags
	summarizeLastN   int
	summarizeCompare bool
	summarizeFormat  string
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Show summary and trends from stored runs",
	Long: `Analyze historical data from stored runs and show trends over time.

This command displays:
- Latest run summary
- Trend analysis across last N runs
- Error sparklines showing changes over time
- Per-rule trend comparison
- Improvement/degradation indicators

Example:
  typeramp summarize
  typeramp summarize --last 7
  typeramp summarize --compare --format json`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().IntVarP(&summarizeLastN, "last", "n", 0,
		"number of runs to analyze (default from config)")
	summarizeCmd.Flags().BoolVarP(&summarizeCompare, "compare", "c", false,
		"compare latest run with previous")
	summarizeCmd.Flags().StringVarP(&summarizeFormat, "format", "f", "text",
		"output format: text or json")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	// Apply config defaults if flags not set
	if summarizeLastN == 0 {
		summarizeLastN = cfg.LastRuns
	}

	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		logError("Failed to get storage path: %v", err)
		return err
	}

	store := storage.NewLocal(storagePath)

	logVerbose("Loading runs from: %s", storagePath)

	runs, err := store.ListRuns()
	if err != nil {
		logError("Failed to list runs: %v", err)
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No stored runs found.")
		fmt.Println("Run 'typeramp analyze --store' to generate your first run.")
		return nil
	}

	logVerbose("Found %d stored runs", len(runs))

	if summarizeCompare {
		return runComparisonReport(store)
	}
	return runTrendReport(store, summarizeLastN)
}

// runComparisonReport shows the latest run against the previous one.
func runComparisonReport(store *storage.LocalStorage) error {
	runs, err := store.GetLastNRuns(2)
	if err != nil {
		logError("Failed to load runs: %v", err)
		return err
	}

	if len(runs) < 2 {
		fmt.Println("Need at least 2 runs for comparison.")
		fmt.Println("Run 'typeramp analyze --store' to generate more runs.")
		return nil
	}

	previous := runs[0]
	current := runs[1]

	logVerbose("Comparing %s vs %s", current.Timestamp, previous.Timestamp)

	trend := aggregator.NewTrendAnalyzer().CalculateTrend(current, previous)

	report := &reporter.Report{
		Summary: current.Summary,
		Ranking: current.Ranking,
		Trend:   trend,
	}

	switch summarizeFormat {
	case "text":
		return reporter.NewTextReporter(os.Stdout).Generate(report)
	case "json":
		return reporter.NewJSONReporter(os.Stdout, true).Generate(report)
	default:
		return fmt.Errorf("unsupported format: %s", summarizeFormat)
	}
}

// runTrendReport generates a trend report across last N runs.
func runTrendReport(store *storage.LocalStorage, lastN int) error {
	runs, err := store.GetLastNRuns(lastN)
	if err != nil {
		logError("Failed to load runs: %v", err)
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	logVerbose("Analyzing trends across %d runs", len(runs))

	analyzer := aggregator.NewTrendAnalyzer()
	trendSummary := analyzer.AnalyzeLastNRuns(runs)

	if trendSummary == nil {
		fmt.Println("Unable to generate trend summary.")
		return nil
	}

	switch summarizeFormat {
	case "text":
		printTrendSummaryText(trendSummary, runs)
	case "json":
		latest := runs[len(runs)-1]
		report := &reporter.Report{Summary: latest.Summary, Ranking: latest.Ranking}
		return reporter.NewJSONReporter(os.Stdout, true).Generate(report)
	default:
		return fmt.Errorf("unsupported format: %s", summarizeFormat)
	}

	return nil
}

// printTrendSummaryText prints trend summary in human-readable format
func printTrendSummaryText(summary *aggregator.TrendSummary, runs []*models.AnalysisRun) {
	fmt.Println("╔════════════════════════════════════════════╗")
	fmt.Println("║         Typeramp Trend Summary             ║")
	fmt.Println("╚════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Printf("Time Range: %s\n", summary.TimeRange)
	fmt.Printf("Runs Analyzed: %d\n", summary.RunsAnalyzed)
	fmt.Println()

	latest := runs[len(runs)-1]
	fmt.Printf("Latest Run: %s\n", latest.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total Errors: %d", latest.Summary.TotalErrors)

	if len(runs) >= 2 {
		previous := runs[len(runs)-2]
		trend := aggregator.NewTrendAnalyzer().CalculateTrend(latest, previous)
		fmt.Printf(" (%s %s %.1f%%)\n",
			aggregator.GetTrendIndicator(trend.Direction), trend.Direction, trend.ChangePercent)
	} else {
		fmt.Println()
	}

	fmt.Println()

	if len(summary.ErrorSparkline) > 0 {
		fmt.Println("Error Trend (over time):")
		fmt.Print("  ")
		printSparkline(summary.ErrorSparkline)
	}

	if len(summary.ByRule) > 0 {
		fmt.Println()
		fmt.Println("By Rule:")
		fmt.Println("--------------------------------------------------")

		for _, rt := range summary.ByRule {
			indicator := "→"
			if rt.Change < 0 {
				indicator = "↓"
			} else if rt.Change > 0 {
				indicator = "↑"
			}

			fmt.Printf("  %s: %d errors (%s %+d, %.1f%%)\n",
				rt.Rule, rt.CurrentErrors, indicator, rt.Change, rt.ChangePercent)
		}
	}

	if latest.Ranking != nil && !latest.Ranking.AllClear() && len(latest.Ranking.Candidates) > 0 {
		fmt.Println()
		fmt.Println("Next Files to Fix:")
		fmt.Println("--------------------------------------------------")

		top := latest.Ranking.Candidates
		if len(top) > 5 {
			top = top[:5]
		}
		for i, c := range top {
			fmt.Printf("  %d. %s (%d errors, %d rules)\n", i+1, c.File, c.ErrorCount, c.DistinctRules)
		}
	}

	fmt.Println()
	fmt.Println("Run 'typeramp analyze --store' to update data")
}

// printSparkline prints a simple ASCII sparkline
func printSparkline(values []int) {
	if len(values) == 0 {
		return
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	for _, v := range values {
		if max == min {
			fmt.Print(string(chars[len(chars)/2]))
		} else {
			normalized := float64(v-min) / float64(max-min)
			idx := int(normalized * float64(len(chars)-1))
			fmt.Print(string(chars[idx]))
		}
	}

	fmt.Printf(" [%d → %d]\n", values[0], values[len(values)-1])
}
