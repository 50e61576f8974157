package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/storage"
)

var explainFormat string

var explainRankCmd = &cobra.Command{
	Use:   "explain-rank",
	Short: "Show how the fixing order was decided, step by step",
	Long: `Explain-rank loads the latest stored run and shows exactly how the
recommended fixing order was calculated:

  1. Per-file error counts and distinct rule categories
  2. The ordering keys: distinct rules asc, errors desc, path
  3. Why each file landed where it did relative to its neighbors

This command requires a previous run stored with --store.`,
	RunE: runExplainRank,
}

func init() {
	explainRankCmd.Flags().StringVar(&explainFormat, "format", "text",
		"output format: text or json")
}

// explainResult holds the structured explanation.
type explainResult struct {
	Status      string             `json:"status"`
	Candidates  []rankContribution `json:"candidates"`
	OrderingKey []string           `json:"ordering_keys"`
	TotalErrors int                `json:"total_errors"`
	TotalFiles  int                `json:"total_files"`
}

type rankContribution struct {
	Position      int      `json:"position"`
	File          string   `json:"file"`
	ErrorCount    int      `json:"error_count"`
	DistinctRules int      `json:"distinct_rules"`
	Rules         []string `json:"rules"`
	DecidedBy     string   `json:"decided_by"` // which key separated it from the next entry
}

func runExplainRank(cmd *cobra.Command, args []string) error {
	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("failed to resolve storage path: %w", err)
	}

	store := storage.NewLocal(storagePath)
	run, err := store.GetLatestRun()
	if err != nil {
		return fmt.Errorf("no stored runs found. Run 'typeramp analyze --store' first: %w", err)
	}

	result := buildExplanation(run)

	if explainFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeExplainText(result)
}

func buildExplanation(run *models.AnalysisRun) explainResult {
	result := explainResult{
		OrderingKey: []string{
			"distinct rule categories, ascending (isolated fixes first)",
			"error count, descending (impact among equally isolated files)",
			"file path, lexicographic (deterministic tie-break)",
		},
	}
	if run.Summary != nil {
		result.TotalErrors = run.Summary.TotalErrors
		result.TotalFiles = len(run.Summary.ByFile)
	}

	if run.Ranking == nil || run.Ranking.AllClear() {
		result.Status = string(models.StatusAllClear)
		return result
	}
	result.Status = string(run.Ranking.Status)

	candidates := run.Ranking.Candidates
	for i, c := range candidates {
		rc := rankContribution{
			Position:      i + 1,
			File:          c.File,
			ErrorCount:    c.ErrorCount,
			DistinctRules: c.DistinctRules,
			Rules:         c.Rules,
		}
		if i+1 < len(candidates) {
			rc.DecidedBy = decidingKey(c, candidates[i+1])
		} else {
			rc.DecidedBy = "last entry"
		}
		result.Candidates = append(result.Candidates, rc)
	}

	return result
}

// decidingKey names the first ordering key that separates two adjacent
// candidates.
func decidingKey(a, b models.Candidate) string {
	switch {
	case a.DistinctRules != b.DistinctRules:
		return fmt.Sprintf("distinct rules (%d < %d)", a.DistinctRules, b.DistinctRules)
	case a.ErrorCount != b.ErrorCount:
		return fmt.Sprintf("error count (%d > %d)", a.ErrorCount, b.ErrorCount)
	default:
		return fmt.Sprintf("path (%q < %q)", a.File, b.File)
	}
}

func writeExplainText(result explainResult) error {
	fmt.Println("Ranking Breakdown")
	fmt.Println("=================")
	fmt.Println()

	if result.Status == string(models.StatusAllClear) {
		fmt.Println("All clear: zero errors, nothing to rank.")
		return nil
	}

	fmt.Println("1. Ordering keys (applied in order):")
	for i, key := range result.OrderingKey {
		fmt.Printf("   %d. %s\n", i+1, key)
	}
	fmt.Println()

	fmt.Printf("2. Candidates (%d errors across %d files):\n", result.TotalErrors, result.TotalFiles)
	for _, rc := range result.Candidates {
		fmt.Printf("   %2d. %-30s %d error(s), %d rule(s): %s\n",
			rc.Position, rc.File, rc.ErrorCount, rc.DistinctRules, strings.Join(rc.Rules, ", "))
		if rc.DecidedBy != "last entry" {
			fmt.Printf("       ranks above next by %s\n", rc.DecidedBy)
		}
	}
	fmt.Println()

	fmt.Printf("Result: start with %s\n", result.Candidates[0].File)
	return nil
}
