package checker

import (
	"context"
	"strings"
	"time"
)

// DefaultTimeout is the checker execution timeout.
const DefaultTimeout = 10 * time.Minute

// ExecFunc is the signature for running a command and capturing stdout.
// It receives the context, binary path, and args. Returns stdout bytes and error.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunConfig describes a single checker invocation.
type RunConfig struct {
	Command string        // full command line, e.g. "npx pyright --outputjson"
	Timeout time.Duration // zero means DefaultTimeout
}

// RunResult is the outcome of a checker invocation.
type RunResult struct {
	Command  string        `json:"command"`
	Output   []byte        `json:"-"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// Runner executes the type checker and captures its JSON output.
type Runner struct {
	execFn ExecFunc
}

// New creates a Runner with the given exec function.
func New(execFn ExecFunc) *Runner {
	return &Runner{execFn: execFn}
}

// Run executes the checker command and captures stdout.
//
// Type checkers conventionally exit non-zero when diagnostics are found,
// so an exec error with non-empty stdout is still treated as success as
// long as the output is parseable JSON. An exec error with empty stdout
// (binary missing, timeout) is a real failure.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) RunResult {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fields := strings.Fields(cfg.Command)
	if len(fields) == 0 {
		return RunResult{
			Command: cfg.Command,
			Success: false,
			Error:   "empty checker command",
		}
	}

	start := time.Now()
	stdout, err := r.execFn(runCtx, fields[0], fields[1:]...)
	duration := time.Since(start)

	result := RunResult{
		Command:  cfg.Command,
		Output:   stdout,
		Duration: duration,
	}

	if err != nil && !looksLikeJSON(stdout) {
		result.Success = false
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

// looksLikeJSON checks whether the output starts with a JSON object or array.
func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
