package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/typeramp/typeramp/internal/config"
)

const pyrightPayload = `{
	"generalDiagnostics": [
		{"file": "a.py", "severity": "error", "message": "bad type",
		 "rule": "reportGeneralTypeIssues",
		 "range": {"start": {"line": 2, "character": 0}}},
		{"file": "b.py", "severity": "error", "message": "missing import",
		 "rule": "reportMissingImports",
		 "range": {"start": {"line": 0, "character": 4}}}
	],
	"summary": {"errorCount": 2}
}`

// resetAnalyzeFlags restores analyze flag defaults between tests.
func resetAnalyzeFlags(t *testing.T) {
	t.Helper()
	analyzeRun = false
	analyzeFormat = ""
	analyzeOutput = ""
	analyzeStore = false
	analyzeStorageDir = ""
	analyzeThreshold = -1
	analyzeRoot = ""
}

func TestRunAnalyzeFromFile(t *testing.T) {
	dir := chdirTemp(t)
	withTestConfig(t, config.DefaultConfig())
	resetAnalyzeFlags(t)

	payload := filepath.Join(dir, "pyright.json")
	if err := os.WriteFile(payload, []byte(pyrightPayload), 0o644); err != nil {
		t.Fatal(err)
	}

	var err error
	out := captureStdout(t, func() {
		err = runAnalyze(analyzeCmd, []string{payload})
	})

	if err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	if !strings.Contains(out, "a.py") || !strings.Contains(out, "b.py") {
		t.Errorf("output missing files:\n%s", out)
	}
	if !strings.Contains(out, "reportGeneralTypeIssues") {
		t.Errorf("output missing rule breakdown:\n%s", out)
	}
}

func TestRunAnalyzeMissingPayloadArg(t *testing.T) {
	withTestConfig(t, config.DefaultConfig())
	resetAnalyzeFlags(t)

	err := runAnalyze(analyzeCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "payload argument required") {
		t.Errorf("expected missing payload error, got %v", err)
	}
}

func TestRunAnalyzeUnreadableFile(t *testing.T) {
	withTestConfig(t, config.DefaultConfig())
	resetAnalyzeFlags(t)

	err := runAnalyze(analyzeCmd, []string{"/nonexistent/pyright.json"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRunAnalyzeInvalidJSON(t *testing.T) {
	dir := chdirTemp(t)
	withTestConfig(t, config.DefaultConfig())
	resetAnalyzeFlags(t)

	payload := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(payload, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runAnalyze(analyzeCmd, []string{payload})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
}

func TestRunAnalyzeRunAndPayloadConflict(t *testing.T) {
	withTestConfig(t, config.DefaultConfig())
	resetAnalyzeFlags(t)
	analyzeRun = true

	err := runAnalyze(analyzeCmd, []string{"pyright.json"})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("expected mutual exclusion error, got %v", err)
	}
}
