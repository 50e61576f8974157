package aggregator

import (
	"fmt"
	"sort"

	"github.com/typeramp/typeramp/internal/models"
)

// ruleHints maps well-known checker rules to a short fixing hint.
// Unknown rules simply get no hint; the set is advisory, not a contract.
var ruleHints = map[string]string{
	"reportUnknownMemberType":    "Usually third-party libs: install stubs",
	"reportMissingParameterType": "Add parameter annotations",
	"reportMissingTypeStubs":     "pip install types-{package}",
	"reportUnknownArgumentType":  "Check function call types",
	"reportGeneralTypeIssues":    "Type mismatch: fix logic or annotations",
	"reportOptionalMemberAccess": "Add None check before access",
	"reportUnknownVariableType":  "Add variable annotation",
	"reportPrivateUsage":         "Rename or make public",
	"reportAttributeAccessIssue": "Check attribute exists on type",
	"reportReturnType":           "Add return type annotation",
}

// quickWinRules are categories that usually fall to mechanical annotation
// work rather than design changes.
var quickWinRules = []string{
	"reportMissingParameterType",
	"reportMissingTypeStubs",
	"reportUnusedImport",
	"reportUnusedVariable",
	"reportReturnType",
}

// stubRules indicate missing third-party type stubs rather than problems in
// the project's own code.
var stubRules = []string{
	"reportMissingTypeStubs",
	"reportUnknownMemberType",
}

// stubPressureThreshold is the error count above which the strategy calls
// out third-party stubs as a dedicated work item.
const stubPressureThreshold = 20

// RuleHint returns the fixing hint for a rule, or "" if none is known.
func RuleHint(rule string) string {
	return ruleHints[rule]
}

// Strategy is a synthesized set of suggestions derived from a summary.
type Strategy struct {
	QuickWins    int      `json:"quick_wins"`    // errors from mechanical annotation rules
	QuickWinTop  []string `json:"quick_win_top"` // the quick-win rules actually present
	StubErrors   int      `json:"stub_errors"`   // errors pointing at missing stubs
	StubPressure bool     `json:"stub_pressure"` // stub errors exceed the threshold
	Suggestions  []string `json:"suggestions"`   // human-readable action list
}

// StrategyGenerator synthesizes fix strategy suggestions from a summary.
type StrategyGenerator struct{}

// NewStrategyGenerator creates a new strategy generator.
func NewStrategyGenerator() *StrategyGenerator {
	return &StrategyGenerator{}
}

// Generate builds a Strategy for the given summary and ranking.
func (g *StrategyGenerator) Generate(summary *models.Summary, ranking *models.Ranking) *Strategy {
	s := &Strategy{}

	for _, rule := range quickWinRules {
		if n := summary.ByRule[rule]; n > 0 {
			s.QuickWins += n
			s.QuickWinTop = append(s.QuickWinTop, rule)
		}
	}
	sort.Strings(s.QuickWinTop)

	for _, rule := range stubRules {
		s.StubErrors += summary.ByRule[rule]
	}
	s.StubPressure = s.StubErrors > stubPressureThreshold

	if s.QuickWins > 0 {
		s.Suggestions = append(s.Suggestions, fmt.Sprintf(
			"Quick wins: %d error(s) from missing annotations or imports", s.QuickWins))
	}
	if s.StubPressure {
		s.Suggestions = append(s.Suggestions, fmt.Sprintf(
			"Third-party stubs: %d error(s) likely need stub packages (pip install types-...)", s.StubErrors))
	}
	if ranking != nil && ranking.Status == models.StatusRanked && len(ranking.Candidates) > 0 {
		top := ranking.Candidates[0]
		s.Suggestions = append(s.Suggestions, fmt.Sprintf(
			"Good starting file: %s (%d error(s), %d rule category(ies))",
			top.File, top.ErrorCount, top.DistinctRules))
	}

	return s
}
