package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/scaffold"
)

var (
	initProfile string
	initRoot    string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold type checking configuration for the project",
	Long: `Init writes the configuration a gradual-typing rollout needs:
pyrightconfig.json, the findings log, rule convention docs, and a
pre-commit hook.

Init is idempotent: re-running it skips files it already wrote, merges
new keys into tool-managed configs without touching your edits, and
refuses to clobber files you hand-edited. Raising the profile (basic,
standard, strict) updates tool-managed settings in place.

Example:
  typeramp init
  typeramp init --profile strict
  typeramp init --root ./services/api`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initProfile, "profile", "p", "standard",
		"strictness profile: basic, standard, or strict")
	initCmd.Flags().StringVar(&initRoot, "root", ".",
		"project root to scaffold into")
}

func runInit(cmd *cobra.Command, args []string) error {
	profile, ok := models.ParseProfile(initProfile)
	if !ok {
		return &ValidationError{
			Message: fmt.Sprintf("unknown profile %q (use basic, standard, or strict)", initProfile),
		}
	}

	logVerbose("Scaffolding profile %s into %s", profile, initRoot)

	results, err := scaffold.New(initRoot).Scaffold(profile)

	// Per-artifact results print even when some artifacts failed, so the
	// user sees exactly which files were touched.
	printScaffoldResults(results)

	if err != nil {
		logError("Scaffold incomplete: %v", err)
		return err
	}

	fmt.Printf("\nProfile %s scaffolded. Run 'typeramp analyze --run' to get a baseline.\n", profile)
	return nil
}

func printScaffoldResults(results []scaffold.ArtifactResult) {
	icons := map[scaffold.Action]string{
		scaffold.ActionCreated:  "+",
		scaffold.ActionMerged:   "~",
		scaffold.ActionSkipped:  "=",
		scaffold.ActionConflict: "!",
	}

	for _, res := range results {
		icon, ok := icons[res.Action]
		if !ok {
			icon = "?"
		}
		if res.Detail != "" {
			fmt.Printf("  %s %-28s %s (%s)\n", icon, res.Path, res.Action, res.Detail)
		} else {
			fmt.Printf("  %s %-28s %s\n", icon, res.Path, res.Action)
		}
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "      %v\n", res.Err)
		}
	}
}
