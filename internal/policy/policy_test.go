package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/typeramp/typeramp/internal/models"
)

func intPtr(n int) *int { return &n }

func summaryFixture() *models.Summary {
	return &models.Summary{
		TotalErrors:   12,
		TotalWarnings: 4,
		ByRule: map[string]int{
			"reportGeneralTypeIssues":    7,
			"reportMissingParameterType": 5,
		},
		ByFile: map[string]int{
			"a.py": 6,
			"b.py": 4,
			"c.py": 2,
		},
	}
}

func TestEvaluateNilPolicyPasses(t *testing.T) {
	var p *Policy
	result := p.Evaluate(summaryFixture())
	if !result.Pass {
		t.Error("nil policy must pass")
	}
}

func TestEvaluateRules(t *testing.T) {
	tests := []struct {
		name           string
		rules          Rules
		wantPass       bool
		wantViolations int
	}{
		{"no rules", Rules{}, true, 0},
		{"max errors ok", Rules{MaxErrors: intPtr(20)}, true, 0},
		{"max errors exceeded", Rules{MaxErrors: intPtr(10)}, false, 1},
		{"max warnings exceeded", Rules{MaxWarnings: intPtr(2)}, false, 1},
		{"max files exceeded", Rules{MaxFilesAffected: intPtr(2)}, false, 1},
		{"per rule ok", Rules{MaxPerRule: map[string]int{"reportGeneralTypeIssues": 10}}, true, 0},
		{"per rule exceeded", Rules{MaxPerRule: map[string]int{"reportGeneralTypeIssues": 5}}, false, 1},
		{"per rule unknown rule", Rules{MaxPerRule: map[string]int{"neverSeen": 0}}, true, 0},
		{"forbid present rule", Rules{ForbidRules: []string{"reportMissingParameterType"}}, false, 1},
		{"forbid absent rule", Rules{ForbidRules: []string{"reportPrivateUsage"}}, true, 0},
		{
			"multiple violations",
			Rules{MaxErrors: intPtr(1), MaxWarnings: intPtr(1), ForbidRules: []string{"reportGeneralTypeIssues"}},
			false, 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Policy{Version: "1", Rules: tt.rules}
			result := p.Evaluate(summaryFixture())
			if result.Pass != tt.wantPass {
				t.Errorf("Pass = %v, want %v (violations: %v)", result.Pass, tt.wantPass, result.Violations)
			}
			if len(result.Violations) != tt.wantViolations {
				t.Errorf("violations = %d, want %d: %v", len(result.Violations), tt.wantViolations, result.Violations)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".typeramp-policy.yaml")
	content := `version: "1"
rules:
  max_errors: 100
  forbid_rules:
    - reportPrivateUsage
  max_per_rule:
    reportGeneralTypeIssues: 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p == nil {
		t.Fatal("expected policy, got nil")
	}
	if p.Rules.MaxErrors == nil || *p.Rules.MaxErrors != 100 {
		t.Errorf("MaxErrors = %v", p.Rules.MaxErrors)
	}
	if len(p.Rules.ForbidRules) != 1 || p.Rules.ForbidRules[0] != "reportPrivateUsage" {
		t.Errorf("ForbidRules = %v", p.Rules.ForbidRules)
	}
	if p.Rules.MaxPerRule["reportGeneralTypeIssues"] != 50 {
		t.Errorf("MaxPerRule = %v", p.Rules.MaxPerRule)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	p, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if p != nil {
		t.Error("missing file should yield nil policy")
	}
}

func TestLoadFromFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("rules: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}
