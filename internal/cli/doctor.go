package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/discovery"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your typeramp setup end-to-end:

  1. Config file: found and readable?
  2. Checker toolchain: pyright or npx in PATH?
  3. Project config: pyrightconfig.json present?
  4. Scaffold state: has 'typeramp init' run?
  5. Storage: directory writable?

Fix the issues it reports, then run 'typeramp analyze --run' with confidence.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []doctorCheck

	checks = append(checks, checkConfigFile())
	checks = append(checks, checkToolchain()...)
	checks = append(checks, checkStorage())

	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	summary := "all checks passed"
	if fails > 0 {
		summary = fmt.Sprintf("%d issue(s) found", fails)
	} else if warns > 0 {
		summary = fmt.Sprintf("ok with %d warning(s)", warns)
	}

	result := doctorResult{Checks: checks, Summary: summary}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(result)
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-20s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

func checkConfigFile() doctorCheck {
	candidates := []string{configFile}
	if configFile == "" {
		candidates = []string{"typeramp.yaml"}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".typeramp.yaml"))
		}
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return doctorCheck{Name: "config", Status: "ok", Detail: path}
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "warn",
		Detail: "no config file found (using defaults)",
	}
}

func checkToolchain() []doctorCheck {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	d := discovery.New(root, exec.LookPath, os.Getenv)
	plan := d.Discover()

	var checks []doctorCheck

	if plan.CheckerReady {
		detail := "ready"
		for _, bs := range plan.Binaries {
			if bs.Available && (bs.Name == "pyright" || bs.Name == "npx") {
				detail = bs.Path
				break
			}
		}
		checks = append(checks, doctorCheck{Name: "checker", Status: "ok", Detail: detail})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "checker",
			Status: "fail",
			Detail: "no pyright or npx in PATH (npm install -g pyright)",
		})
	}

	configFound := false
	for _, fs := range plan.Configs {
		if fs.Path == "pyrightconfig.json" && fs.Exists {
			configFound = true
		}
	}
	if configFound {
		checks = append(checks, doctorCheck{Name: "pyrightconfig", Status: "ok", Detail: "present"})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "pyrightconfig",
			Status: "warn",
			Detail: "not found. Run: typeramp init",
		})
	}

	if plan.Scaffolded {
		checks = append(checks, doctorCheck{Name: "scaffold", Status: "ok", Detail: "manifest present"})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "scaffold",
			Status: "warn",
			Detail: "not scaffolded. Run: typeramp init",
		})
	}

	return checks
}

func checkStorage() doctorCheck {
	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		return doctorCheck{Name: "storage", Status: "fail", Detail: err.Error()}
	}

	// Probe writability with a throwaway file.
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("cannot create %s: %v", storagePath, err),
		}
	}

	probe := filepath.Join(storagePath, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("not writable: %v", err),
		}
	}
	_ = os.Remove(probe)

	return doctorCheck{Name: "storage", Status: "ok", Detail: storagePath}
}
