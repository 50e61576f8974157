package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/policy"
	"github.com/typeramp/typeramp/internal/prioritizer"
	"github.com/typeramp/typeramp/internal/reporter"
	"github.com/typeramp/typeramp/internal/storage"
)

// PipelineConfig holds options for the shared analysis pipeline.
type PipelineConfig struct {
	Source     string // payload path or "checker"
	Format     string
	Output     string
	Store      bool
	StorageDir string
	Threshold  int
}

// RunPipeline executes the analysis pipeline on a set of diagnostic records.
// This is the shared logic behind analyze in all its input modes:
// aggregate → rank → strategy → trend → store → output → gates.
func RunPipeline(records []models.Record, pcfg PipelineConfig) error {
	// Step 1: Aggregate records
	agg := aggregator.New()
	summary, err := agg.Aggregate(records)
	if err != nil {
		logError("Failed to aggregate diagnostics: %v", err)
		return &ValidationError{Message: err.Error()}
	}

	logVerbose("Aggregated %d errors across %d files", summary.TotalErrors, len(summary.ByFile))

	// Step 2: Rank files
	ranking, err := prioritizer.New().Prioritize(summary)
	if err != nil {
		logError("Failed to rank files: %v", err)
		return err
	}

	// Step 3: Strategy suggestions
	strategy := aggregator.NewStrategyGenerator().Generate(summary, ranking)

	run := &models.AnalysisRun{
		Timestamp: time.Now(),
		Source:    pcfg.Source,
		Summary:   summary,
		Ranking:   ranking,
		Records:   records,
	}

	// Step 4: Trend against the previous stored run
	var trend *aggregator.Trend
	if pcfg.Store {
		storagePath, err := getStoragePath(pcfg.StorageDir)
		if err != nil {
			logError("Failed to get storage path: %v", err)
			return err
		}

		store := storage.NewLocal(storagePath)

		if previous, err := store.GetLatestRun(); err == nil {
			logVerbose("Found previous run from %s", previous.Timestamp)
			trend = aggregator.NewTrendAnalyzer().CalculateTrend(run, previous)
		} else {
			logDebug("No previous run found: %v", err)
		}

		if err := store.SaveRun(run); err != nil {
			logError("Failed to store run: %v", err)
			return err
		}

		logVerbose("Stored run in: %s", storagePath)
	}

	// Step 5: Generate output
	report := &reporter.Report{
		Summary:  summary,
		Ranking:  ranking,
		Strategy: strategy,
		Trend:    trend,
	}
	if err := generateOutput(report, pcfg.Format, pcfg.Output); err != nil {
		logError("Failed to generate output: %v", err)
		return err
	}

	// Step 6: Policy enforcement (if .typeramp-policy.yaml exists)
	if policyPath := policy.FindPolicyFile(); policyPath != "" {
		logVerbose("Found policy file: %s", policyPath)

		pol, err := policy.LoadFromFile(policyPath)
		if err != nil {
			logError("Failed to load policy: %v", err)
			return err
		}

		if pol != nil {
			result := pol.Evaluate(summary)
			if !result.Pass {
				for _, v := range result.Violations {
					logError("Policy violation [%s]: %s", v.Rule, v.Message)
				}
				return &ThresholdExceededError{
					ErrorCount: len(result.Violations),
					Threshold:  0,
				}
			}
			logVerbose("Policy check passed")
		}
	}

	// Step 7: Check threshold
	if pcfg.Threshold > 0 && summary.TotalErrors > pcfg.Threshold {
		logError("Error count (%d) exceeds threshold (%d)", summary.TotalErrors, pcfg.Threshold)
		return &ThresholdExceededError{
			ErrorCount: summary.TotalErrors,
			Threshold:  pcfg.Threshold,
		}
	}

	return nil
}

// generateOutput renders the report in the specified format(s).
func generateOutput(report *reporter.Report, format, outputPath string) error {
	var writer *os.File
	if outputPath == "" {
		writer = os.Stdout
	} else {
		var err error
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = writer.Close() }()
	}

	switch format {
	case "text":
		return reporter.NewTextReporter(writer).Generate(report)

	case "json":
		return reporter.NewJSONReporter(writer, true).Generate(report)

	case "both":
		if outputPath == "" {
			if err := reporter.NewTextReporter(os.Stdout).Generate(report); err != nil {
				return err
			}

			jsonFile, err := os.Create("typeramp-report.json")
			if err != nil {
				return fmt.Errorf("failed to create JSON file: %w", err)
			}
			defer func() { _ = jsonFile.Close() }()

			return reporter.NewJSONReporter(jsonFile, true).Generate(report)
		}

		if err := reporter.NewTextReporter(writer).Generate(report); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(writer, "\n=== JSON Output ===\n\n"); err != nil {
			return err
		}

		return reporter.NewJSONReporter(writer, true).Generate(report)

	default:
		return fmt.Errorf("unsupported format: %s (use text, json, or both)", format)
	}
}

// getStoragePath resolves the storage path, expanding ~ and converting to absolute.
func getStoragePath(storageDir string) (string, error) {
	c := *cfg
	if storageDir != "" {
		c.StorageDir = storageDir
	}
	return c.GetStoragePath()
}
