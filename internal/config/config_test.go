package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StorageDir != ".typeramp" {
		t.Errorf("StorageDir = %q, want .typeramp", cfg.StorageDir)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if cfg.LastRuns != 7 {
		t.Errorf("LastRuns = %d, want 7", cfg.LastRuns)
	}
	if cfg.FailThreshold != 0 {
		t.Errorf("FailThreshold = %d, want 0", cfg.FailThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typeramp.yaml")
	content := `storage_dir: /tmp/ramp-runs
fail_threshold: 25
format: json
last_runs: 3
verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StorageDir != "/tmp/ramp-runs" {
		t.Errorf("StorageDir = %q", cfg.StorageDir)
	}
	if cfg.FailThreshold != 25 {
		t.Errorf("FailThreshold = %d, want 25", cfg.FailThreshold)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.LastRuns != 3 {
		t.Errorf("LastRuns = %d, want 3", cfg.LastRuns)
	}
	if !cfg.Verbose {
		t.Error("Verbose not picked up")
	}
	// Unset keys keep defaults.
	if cfg.CheckerCmd != "npx pyright --outputjson" {
		t.Errorf("CheckerCmd = %q, want default", cfg.CheckerCmd)
	}
}

func TestLoadFromFileMissingUsesDefaults(t *testing.T) {
	// Run from an empty directory so no stray typeramp.yaml is found.
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDir != ".typeramp" {
		t.Errorf("StorageDir = %q, want default", cfg.StorageDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"negative threshold", func(c *Config) { c.FailThreshold = -1 }, "fail_threshold"},
		{"zero last runs", func(c *Config) { c.LastRuns = 0 }, "last_runs"},
		{"empty storage dir", func(c *Config) { c.StorageDir = "" }, "storage_dir"},
		{"empty checker cmd", func(c *Config) { c.CheckerCmd = "  " }, "checker_cmd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldFailOnThreshold(t *testing.T) {
	cfg := DefaultConfig()

	// Zero threshold disables the check entirely.
	if cfg.ShouldFailOnThreshold(1000) {
		t.Error("threshold 0 must never fail")
	}

	cfg.FailThreshold = 10
	if cfg.ShouldFailOnThreshold(10) {
		t.Error("at threshold should pass")
	}
	if !cfg.ShouldFailOnThreshold(11) {
		t.Error("above threshold should fail")
	}
}

func TestGetStoragePathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := DefaultConfig()
	cfg.StorageDir = "~/ramp-data"

	path, err := cfg.GetStoragePath()
	if err != nil {
		t.Fatalf("storage path: %v", err)
	}
	if path != filepath.Join(home, "ramp-data") {
		t.Errorf("path = %q", path)
	}
}
