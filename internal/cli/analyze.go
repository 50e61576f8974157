package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/checker"
	"github.com/typeramp/typeramp/internal/ingest"
)

var (
	// Analyze command flags
	analyzeRun        bool
	analyzeFormat     string
	analyzeOutput     string
	analyzeStore      bool
	analyzeStorageDir string
	analyzeThreshold  int
	analyzeRoot       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [payload]",
	Short: "Analyze type checker diagnostics and rank files for fixing",
	Long: `Analyze ingests pyright JSON output, aggregates diagnostics per rule
and per file, and ranks files so the most isolated problems come first.

The command will:
1. Read diagnostics from a file, stdin, or a live checker run
2. Normalize records into a common schema
3. Aggregate per-rule and per-file counts
4. Rank files by distinct rules, error count, and path
5. Suggest a fixing strategy with per-rule hints

Example:
  typeramp analyze pyright.json
  npx pyright --outputjson | typeramp analyze -
  typeramp analyze --run --store
  typeramp analyze pyright.json --fail-threshold 50 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRun, "run", false,
		"execute the checker command instead of reading a payload")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "",
		"output format: text, json, or both (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "",
		"output file path (default: stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeStore, "store", false,
		"store the run for trend analysis")
	analyzeCmd.Flags().StringVar(&analyzeStorageDir, "storage-dir", "",
		"storage directory (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeThreshold, "fail-threshold", -1,
		"exit with code 1 if errors exceed this threshold (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeRoot, "root", "",
		"project root used to relativize absolute paths (default: cwd)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Apply config defaults if flags not set
	if analyzeFormat == "" {
		analyzeFormat = cfg.Format
	}
	if analyzeStorageDir == "" {
		analyzeStorageDir = cfg.StorageDir
	}
	if analyzeThreshold == -1 {
		analyzeThreshold = cfg.FailThreshold
	}

	root := analyzeRoot
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		}
	}

	data, source, err := readPayload(args)
	if err != nil {
		return err
	}

	logDebug("Config: format=%s, store=%v, threshold=%d", analyzeFormat, analyzeStore, analyzeThreshold)

	records, err := ingest.Parse(data, root)
	if err != nil {
		logError("Failed to parse diagnostics: %v", err)
		return &ValidationError{Message: err.Error()}
	}

	logVerbose("Parsed %d diagnostic records from %s", len(records), source)

	return RunPipeline(records, PipelineConfig{
		Source:     source,
		Format:     analyzeFormat,
		Output:     analyzeOutput,
		Store:      analyzeStore,
		StorageDir: analyzeStorageDir,
		Threshold:  analyzeThreshold,
	})
}

// readPayload resolves the three input modes: --run, stdin ("-"), or a file.
func readPayload(args []string) ([]byte, string, error) {
	if analyzeRun {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("--run and a payload argument are mutually exclusive")
		}
		return runChecker()
	}

	if len(args) == 0 {
		return nil, "", fmt.Errorf("payload argument required (or use --run)")
	}

	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read payload: %w", err)
	}
	return data, args[0], nil
}

// runChecker executes the configured checker command and captures its output.
func runChecker() ([]byte, string, error) {
	execFn := func(ctx context.Context, name string, cmdArgs ...string) ([]byte, error) {
		c := exec.CommandContext(ctx, name, cmdArgs...)
		return c.Output()
	}

	logVerbose("Executing checker: %s", cfg.CheckerCmd)

	r := checker.New(execFn)
	res := r.Run(context.Background(), checker.RunConfig{Command: cfg.CheckerCmd})

	if !res.Success {
		return nil, "", fmt.Errorf("checker failed: %s", res.Error)
	}

	logVerbose("Checker finished in %s", res.Duration)
	return res.Output, "checker", nil
}
