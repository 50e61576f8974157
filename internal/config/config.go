package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for typeramp.
type Config struct {
	// Directory for stored analysis runs and scaffold state.
	StorageDir string `mapstructure:"storage_dir"`

	// Error threshold for CI failure; 0 disables the check.
	FailThreshold int `mapstructure:"fail_threshold"`

	// Output format (text, json, both).
	Format string `mapstructure:"format"`

	// Number of last runs to analyze in summarize.
	LastRuns int `mapstructure:"last_runs"`

	// Checker command used by analyze --run.
	CheckerCmd string `mapstructure:"checker_cmd"`

	// Verbose output.
	Verbose bool `mapstructure:"verbose"`

	// Debug mode.
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		StorageDir:    ".typeramp",
		FailThreshold: 0,
		Format:        "text",
		LastRuns:      7,
		CheckerCmd:    "npx pyright --outputjson",
		Verbose:       false,
		Debug:         false,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (~/.typeramp.yaml or ./typeramp.yaml)
// 3. Environment variables (TYPERAMP_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path.
// If path is empty it searches the standard locations.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("fail_threshold", defaults.FailThreshold)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("last_runs", defaults.LastRuns)
	v.SetDefault("checker_cmd", defaults.CheckerCmd)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)

	v.SetConfigName("typeramp")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "typeramp"))
		}
	}

	v.SetEnvPrefix("TYPERAMP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"both": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text, json, or both)", c.Format)
	}

	if c.FailThreshold < 0 {
		return fmt.Errorf("fail_threshold cannot be negative")
	}
	if c.LastRuns <= 0 {
		return fmt.Errorf("last_runs must be positive")
	}
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir cannot be empty")
	}
	if strings.TrimSpace(c.CheckerCmd) == "" {
		return fmt.Errorf("checker_cmd cannot be empty")
	}

	return nil
}

// GetStoragePath returns the absolute path to the storage directory.
func (c *Config) GetStoragePath() (string, error) {
	if strings.HasPrefix(c.StorageDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, c.StorageDir[2:]), nil
	}

	absPath, err := filepath.Abs(c.StorageDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// ShouldFailOnThreshold checks if the error count exceeds the threshold.
func (c *Config) ShouldFailOnThreshold(errorCount int) bool {
	if c.FailThreshold == 0 {
		return false
	}
	return errorCount > c.FailThreshold
}

// GenerateSampleConfig generates a sample configuration file content.
func GenerateSampleConfig() string {
	return `# typeramp configuration
# Save this file as ~/.typeramp.yaml or ./typeramp.yaml

# Directory for stored analysis runs and scaffold state
storage_dir: .typeramp

# Fail threshold for CI (exit code 1 if errors exceed this number)
# Set to 0 to disable threshold checking
fail_threshold: 0

# Output format: text, json, or both
format: text

# Number of last runs to analyze in summarize command
last_runs: 7

# Command used to run the type checker with JSON output
checker_cmd: npx pyright --outputjson

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
