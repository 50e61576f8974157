package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/storage"
)

var (
	diffFormat   string
	diffOutput   string
	diffBaseline string
	diffFailNew  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what changed between two analysis runs",
	Long: `Compare the latest analysis run against a baseline to show drift.

Shows new diagnostics, resolved diagnostics, and summary deltas between
two runs. Useful in CI/CD to catch regressions introduced by a pull
request.

By default compares the two most recent stored runs. Use --baseline to
specify a stored run JSON file as the comparison target.

Exit codes:
  0  No new diagnostics (or --fail-new not set)
  1  New diagnostics detected (with --fail-new)

Example:
  typeramp diff
  typeramp diff --fail-new
  typeramp diff --baseline ./baseline.json --format json`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text",
		"output format: text or json")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "",
		"write output to file instead of stdout")
	diffCmd.Flags().StringVar(&diffBaseline, "baseline", "",
		"path to baseline run JSON (default: previous stored run)")
	diffCmd.Flags().BoolVar(&diffFailNew, "fail-new", false,
		"exit 1 if new diagnostics are found (for CI gating)")
}

// DiffResult is the structured output of a diff operation.
type DiffResult struct {
	Baseline string          `json:"baseline"`
	Current  string          `json:"current"`
	New      []models.Record `json:"new"`
	Resolved []models.Record `json:"resolved"`
	Summary  DiffSummary     `json:"summary"`
}

// DiffSummary holds aggregate counts for a diff.
type DiffSummary struct {
	BaselineTotal int            `json:"baseline_total"`
	CurrentTotal  int            `json:"current_total"`
	NewCount      int            `json:"new_count"`
	ResolvedCount int            `json:"resolved_count"`
	Delta         int            `json:"delta"` // positive = more diagnostics
	NewBySeverity map[string]int `json:"new_by_severity"`
	NewByRule     map[string]int `json:"new_by_rule"`
	NewByFile     map[string]int `json:"new_by_file"`
}

func runDiff(cmd *cobra.Command, args []string) error {
	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		logError("Failed to get storage path: %v", err)
		return err
	}

	store := storage.NewLocal(storagePath)

	// Load current (latest) run.
	current, err := store.GetLatestRun()
	if err != nil {
		logError("No current run found: %v", err)
		fmt.Println("No stored runs found. Run 'typeramp analyze --store' first.")
		return err
	}

	// Load baseline.
	var baseline *models.AnalysisRun
	if diffBaseline != "" {
		baseline, err = loadRunFromFile(diffBaseline)
		if err != nil {
			logError("Failed to load baseline: %v", err)
			return err
		}
	} else {
		runs, err := store.GetLastNRuns(2)
		if err != nil || len(runs) < 2 {
			fmt.Println("Need at least 2 stored runs for diff.")
			fmt.Println("Run 'typeramp analyze --store' to generate more runs.")
			return nil
		}
		baseline = runs[0]
	}

	logVerbose("Comparing %s (current) vs %s (baseline)",
		current.Timestamp.Format("2006-01-02 15:04"),
		baseline.Timestamp.Format("2006-01-02 15:04"))

	result := computeDiff(baseline, current)

	if err := outputDiff(result, diffFormat, diffOutput); err != nil {
		return err
	}

	// CI gate.
	if diffFailNew && result.Summary.NewCount > 0 {
		return &ThresholdExceededError{
			ErrorCount: result.Summary.NewCount,
			Threshold:  0,
		}
	}

	return nil
}

// recordKey returns a string that identifies a diagnostic for diff purposes.
// Line is included so a fix that shifts other diagnostics still pairs most
// of them; message is excluded because checkers reword over versions.
func recordKey(rec models.Record) string {
	return fmt.Sprintf("%s|%d|%s", rec.File, rec.Line, rec.Rule)
}

// computeDiff calculates new and resolved diagnostics between two runs.
func computeDiff(baseline, current *models.AnalysisRun) *DiffResult {
	baseSet := make(map[string]models.Record, len(baseline.Records))
	for _, rec := range baseline.Records {
		baseSet[recordKey(rec)] = rec
	}

	currSet := make(map[string]models.Record, len(current.Records))
	for _, rec := range current.Records {
		currSet[recordKey(rec)] = rec
	}

	var newRecs, resolvedRecs []models.Record

	for key, rec := range currSet {
		if _, found := baseSet[key]; !found {
			newRecs = append(newRecs, rec)
		}
	}

	for key, rec := range baseSet {
		if _, found := currSet[key]; !found {
			resolvedRecs = append(resolvedRecs, rec)
		}
	}

	// Map iteration order is random; sort for stable output.
	sortRecords(newRecs)
	sortRecords(resolvedRecs)

	newBySeverity := map[string]int{}
	newByRule := map[string]int{}
	newByFile := map[string]int{}
	for _, rec := range newRecs {
		newBySeverity[string(rec.Severity)]++
		newByRule[rec.Rule]++
		newByFile[rec.File]++
	}

	return &DiffResult{
		Baseline: baseline.Timestamp.Format("2006-01-02 15:04:05"),
		Current:  current.Timestamp.Format("2006-01-02 15:04:05"),
		New:      newRecs,
		Resolved: resolvedRecs,
		Summary: DiffSummary{
			BaselineTotal: len(baseline.Records),
			CurrentTotal:  len(current.Records),
			NewCount:      len(newRecs),
			ResolvedCount: len(resolvedRecs),
			Delta:         len(current.Records) - len(baseline.Records),
			NewBySeverity: newBySeverity,
			NewByRule:     newByRule,
			NewByFile:     newByFile,
		},
	}
}

func sortRecords(recs []models.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].File != recs[j].File {
			return recs[i].File < recs[j].File
		}
		if recs[i].Line != recs[j].Line {
			return recs[i].Line < recs[j].Line
		}
		return recs[i].Rule < recs[j].Rule
	})
}

// outputDiff renders the diff result to the chosen format.
func outputDiff(result *DiffResult, format, outputPath string) error {
	var writer *os.File
	if outputPath != "" {
		var err error
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = writer.Close() }()
	} else {
		writer = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		return printDiffText(writer, result)
	default:
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}

func printDiffText(w *os.File, r *DiffResult) error {
	p := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(w, format, args...)
	}

	p("╔════════════════════════════════════════════╗\n")
	p("║           Typeramp Drift Delta             ║\n")
	p("╚════════════════════════════════════════════╝\n\n")

	p("Baseline: %s\n", r.Baseline)
	p("Current:  %s\n\n", r.Current)

	deltaSign := "+"
	if r.Summary.Delta < 0 {
		deltaSign = ""
	}
	p("Diagnostics: %d → %d (%s%d)\n", r.Summary.BaselineTotal, r.Summary.CurrentTotal, deltaSign, r.Summary.Delta)
	p("New: %d   Resolved: %d\n\n", r.Summary.NewCount, r.Summary.ResolvedCount)

	if len(r.New) > 0 {
		p("New Diagnostics:\n")
		p("--------------------------------------------------\n")
		for _, rec := range r.New {
			sev := strings.ToUpper(string(rec.Severity))
			p("  [%s] %s:%d %s\n", sev, rec.File, rec.Line, rec.Rule)
			if rec.Message != "" {
				p("         %s\n", rec.Message)
			}
		}
		p("\n")
	}

	if len(r.Resolved) > 0 {
		p("Resolved Diagnostics:\n")
		p("--------------------------------------------------\n")
		for _, rec := range r.Resolved {
			p("  ✓ %s:%d %s\n", rec.File, rec.Line, rec.Rule)
		}
		p("\n")
	}

	if len(r.Summary.NewByRule) > 0 {
		p("New by Rule:\n")
		for _, e := range sortedCountMap(r.Summary.NewByRule) {
			p("  %s: %d\n", e.key, e.count)
		}
		p("\n")
	}

	if len(r.Summary.NewByFile) > 0 {
		p("New by File:\n")
		for _, e := range sortedCountMap(r.Summary.NewByFile) {
			p("  %s: %d\n", e.key, e.count)
		}
		p("\n")
	}

	if r.Summary.NewCount == 0 && r.Summary.ResolvedCount == 0 {
		p("No drift detected.\n")
	} else if r.Summary.NewCount == 0 {
		p("No new diagnostics, only improvements.\n")
	}

	return nil
}

type countMapEntry struct {
	key   string
	count int
}

// sortedCountMap orders a counter map by count descending, then key.
func sortedCountMap(m map[string]int) []countMapEntry {
	entries := make([]countMapEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countMapEntry{key: k, count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

// loadRunFromFile loads an AnalysisRun from a JSON file path.
func loadRunFromFile(path string) (*models.AnalysisRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var run models.AnalysisRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}

	return &run, nil
}
