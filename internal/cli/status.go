package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/storage"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored runs and configuration",
	Long: `Status displays the current typeramp configuration and a snapshot of
stored analysis runs: how many exist, when the latest ran, and how many
errors it found.

Example:
  typeramp status
  typeramp status --format json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "text",
		"output format: text or json")
}

type statusResult struct {
	Runs       *statusRuns  `json:"runs,omitempty"`
	Config     statusConfig `json:"config"`
	ConfigFile string       `json:"config_file"`
}

type statusRuns struct {
	Count        int    `json:"count"`
	LatestAt     string `json:"latest_at"`
	LatestSource string `json:"latest_source"`
	TotalErrors  int    `json:"total_errors"`
	RankStatus   string `json:"rank_status"`
}

type statusConfig struct {
	StorageDir    string `json:"storage_dir"`
	Format        string `json:"format"`
	CheckerCmd    string `json:"checker_cmd"`
	FailThreshold int    `json:"fail_threshold"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	result := statusResult{
		Config: statusConfig{
			StorageDir:    cfg.StorageDir,
			Format:        cfg.Format,
			CheckerCmd:    cfg.CheckerCmd,
			FailThreshold: cfg.FailThreshold,
		},
		ConfigFile: configFile,
	}

	storagePath, err := getStoragePath(cfg.StorageDir)
	if err == nil {
		store := storage.NewLocal(storagePath)
		if runs, err := store.ListRuns(); err == nil && len(runs) > 0 {
			sr := &statusRuns{Count: len(runs)}
			if latest, err := store.GetLatestRun(); err == nil {
				sr.LatestAt = latest.Timestamp.Format("2006-01-02 15:04:05")
				sr.LatestSource = latest.Source
				if latest.Summary != nil {
					sr.TotalErrors = latest.Summary.TotalErrors
				}
				if latest.Ranking != nil {
					sr.RankStatus = string(latest.Ranking.Status)
				}
			}
			result.Runs = sr
		}
	}

	if statusFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeStatusText(result)
}

func writeStatusText(result statusResult) error {
	if result.Runs != nil {
		fmt.Printf("Runs:      %d stored\n", result.Runs.Count)
		fmt.Printf("Latest:    %s (%s)\n", result.Runs.LatestAt, result.Runs.LatestSource)
		if result.Runs.RankStatus == "all-clear" {
			fmt.Println("Errors:    0 (all clear)")
		} else {
			fmt.Printf("Errors:    %d\n", result.Runs.TotalErrors)
		}
	} else {
		fmt.Println("Runs:      none stored (run 'typeramp analyze --store')")
	}

	fmt.Printf("Storage:   %s\n", result.Config.StorageDir)
	fmt.Printf("Checker:   %s\n", result.Config.CheckerCmd)
	if result.Config.FailThreshold > 0 {
		fmt.Printf("Threshold: %d errors\n", result.Config.FailThreshold)
	}

	return nil
}
