// Package policy evaluates ratchet rules against an analysis summary so CI
// can hold the line while a migration is in flight.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/typeramp/typeramp/internal/models"
	"gopkg.in/yaml.v3"
)

// Policy defines enforcement rules for analysis results.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable ratchet rules. Pointer fields distinguish
// "unset" from "zero allowed".
type Rules struct {
	MaxErrors        *int           `yaml:"max_errors,omitempty"`
	MaxWarnings      *int           `yaml:"max_warnings,omitempty"`
	MaxFilesAffected *int           `yaml:"max_files_affected,omitempty"`
	MaxPerRule       map[string]int `yaml:"max_per_rule,omitempty"`
	ForbidRules      []string       `yaml:"forbid_rules,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations"`
}

// LoadFromFile reads a policy file. A missing file yields a nil policy,
// which evaluates as pass.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	return &p, nil
}

// FindPolicyFile searches for a policy file in the current directory and
// parent directories up to the filesystem root.
func FindPolicyFile() string {
	names := []string{".typeramp-policy.yaml", ".typeramp-policy.yml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Evaluate checks an analysis summary against the policy rules.
func (p *Policy) Evaluate(summary *models.Summary) *Result {
	if p == nil {
		return &Result{Pass: true}
	}

	var violations []Violation

	if p.Rules.MaxErrors != nil && summary.TotalErrors > *p.Rules.MaxErrors {
		violations = append(violations, Violation{
			Rule:    "max_errors",
			Message: fmt.Sprintf("total errors %d exceeds limit %d", summary.TotalErrors, *p.Rules.MaxErrors),
		})
	}

	if p.Rules.MaxWarnings != nil && summary.TotalWarnings > *p.Rules.MaxWarnings {
		violations = append(violations, Violation{
			Rule:    "max_warnings",
			Message: fmt.Sprintf("total warnings %d exceeds limit %d", summary.TotalWarnings, *p.Rules.MaxWarnings),
		})
	}

	if p.Rules.MaxFilesAffected != nil && len(summary.ByFile) > *p.Rules.MaxFilesAffected {
		violations = append(violations, Violation{
			Rule:    "max_files_affected",
			Message: fmt.Sprintf("%d files have errors, limit is %d", len(summary.ByFile), *p.Rules.MaxFilesAffected),
		})
	}

	if len(p.Rules.MaxPerRule) > 0 {
		rules := make([]string, 0, len(p.Rules.MaxPerRule))
		for rule := range p.Rules.MaxPerRule {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		for _, rule := range rules {
			limit := p.Rules.MaxPerRule[rule]
			if count := summary.ByRule[rule]; count > limit {
				violations = append(violations, Violation{
					Rule:    "max_per_rule",
					Message: fmt.Sprintf("rule %q has %d errors, limit is %d", rule, count, limit),
				})
			}
		}
	}

	if len(p.Rules.ForbidRules) > 0 {
		for _, rule := range p.Rules.ForbidRules {
			if count := summary.ByRule[rule]; count > 0 {
				violations = append(violations, Violation{
					Rule:    "forbid_rules",
					Message: fmt.Sprintf("forbidden rule %q has %d errors", rule, count),
				})
			}
		}
	}

	return &Result{
		Pass:       len(violations) == 0,
		Violations: violations,
	}
}
