package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/storage"
	"github.com/typeramp/typeramp/internal/tui"
	"golang.org/x/term"
)

var browseLastN int

// launchBrowse is swapped out in tests so they don't start a real program.
var launchBrowse = tui.Run

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the latest run's diagnostics interactively",
	Long: `Browse opens a terminal UI over the latest stored run: a filterable,
sortable table of diagnostics with per-rule fix hints and a trend
sparkline across recent runs.

Keys: / search, r filter by rule, s cycle sort, c copy, q quit.

This command requires a previous run stored with --store and an
interactive terminal.

Example:
  typeramp browse
  typeramp browse --last 14`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&browseLastN, "last", "n", 0,
		"number of runs for the trend sparkline (default from config)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs an interactive terminal (try 'typeramp summarize' instead)")
	}

	if browseLastN == 0 {
		browseLastN = cfg.LastRuns
	}

	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		logError("Failed to get storage path: %v", err)
		return err
	}

	store := storage.NewLocal(storagePath)

	latest, err := store.GetLatestRun()
	if err != nil {
		fmt.Println("No stored runs found. Run 'typeramp analyze --store' first.")
		return err
	}

	analyzer := aggregator.NewTrendAnalyzer()

	var trend *aggregator.Trend
	var sparkline []int
	if runs, err := store.GetLastNRuns(browseLastN); err == nil && len(runs) >= 2 {
		trend = analyzer.CalculateTrend(runs[len(runs)-1], runs[len(runs)-2])
		if ts := analyzer.AnalyzeLastNRuns(runs); ts != nil {
			sparkline = ts.ErrorSparkline
		}
	}

	return launchBrowse(latest, trend, sparkline)
}
