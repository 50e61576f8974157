package aggregator

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/typeramp/typeramp/internal/models"
)

func rec(file string, line, col int, sev models.Severity, rule string) models.Record {
	return models.Record{File: file, Line: line, Column: col, Severity: sev, Rule: rule, Message: "m"}
}

func TestAggregateBasic(t *testing.T) {
	agg := New()

	records := []models.Record{
		rec("fileA", 1, 1, models.SeverityError, "ruleX"),
		rec("fileA", 2, 2, models.SeverityError, "ruleY"),
		rec("fileB", 1, 1, models.SeverityError, "ruleX"),
		rec("fileA", 3, 1, models.SeverityWarning, "ruleZ"),
		rec("fileB", 4, 1, models.SeverityInformation, "ruleX"),
	}

	summary, err := agg.Aggregate(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalErrors != 3 {
		t.Errorf("TotalErrors = %d, want 3", summary.TotalErrors)
	}
	if summary.TotalWarnings != 1 {
		t.Errorf("TotalWarnings = %d, want 1", summary.TotalWarnings)
	}
	if summary.TotalInformation != 1 {
		t.Errorf("TotalInformation = %d, want 1", summary.TotalInformation)
	}

	wantByRule := map[string]int{"ruleX": 2, "ruleY": 1}
	if !reflect.DeepEqual(summary.ByRule, wantByRule) {
		t.Errorf("ByRule = %v, want %v", summary.ByRule, wantByRule)
	}
	wantByFile := map[string]int{"fileA": 2, "fileB": 1}
	if !reflect.DeepEqual(summary.ByFile, wantByFile) {
		t.Errorf("ByFile = %v, want %v", summary.ByFile, wantByFile)
	}

	// Warnings stay out of the primary rule table.
	if summary.ByRule["ruleZ"] != 0 {
		t.Error("warning leaked into error rule table")
	}
	if summary.ByRuleWarnings["ruleZ"] != 1 {
		t.Errorf("ByRuleWarnings[ruleZ] = %d, want 1", summary.ByRuleWarnings["ruleZ"])
	}

	if got := summary.DistinctRules("fileA"); got != 2 {
		t.Errorf("DistinctRules(fileA) = %d, want 2", got)
	}
	if got := summary.DistinctRules("fileB"); got != 1 {
		t.Errorf("DistinctRules(fileB) = %d, want 1", got)
	}
}

func TestAggregateEmptyPayload(t *testing.T) {
	summary, err := New().Aggregate(nil)
	if err != nil {
		t.Fatalf("empty payload must be valid: %v", err)
	}
	if summary.TotalErrors != 0 || summary.TotalWarnings != 0 {
		t.Errorf("expected zero counts, got %d errors / %d warnings",
			summary.TotalErrors, summary.TotalWarnings)
	}
	if len(summary.ByRule) != 0 || len(summary.ByFile) != 0 {
		t.Error("expected empty tables for empty payload")
	}
}

func TestAggregateCommutative(t *testing.T) {
	records := []models.Record{
		rec("a.py", 1, 1, models.SeverityError, "ruleX"),
		rec("a.py", 5, 2, models.SeverityError, "ruleY"),
		rec("b.py", 2, 1, models.SeverityError, "ruleX"),
		rec("b.py", 9, 4, models.SeverityWarning, "ruleW"),
		rec("c.py", 3, 3, models.SeverityError, "ruleZ"),
		rec("c.py", 3, 3, models.SeverityError, "ruleZ"), // duplicate, counted twice
		rec("d.py", 7, 1, models.SeverityInformation, "ruleX"),
	}

	agg := New()
	base, err := agg.Aggregate(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := agg.Aggregate(shuffled)
		if err != nil {
			t.Fatalf("permutation %d: unexpected error: %v", i, err)
		}

		if got.TotalErrors != base.TotalErrors || got.TotalWarnings != base.TotalWarnings {
			t.Fatalf("permutation %d: totals differ", i)
		}
		if !reflect.DeepEqual(got.ByRule, base.ByRule) {
			t.Fatalf("permutation %d: ByRule differs: %v vs %v", i, got.ByRule, base.ByRule)
		}
		if !reflect.DeepEqual(got.ByFile, base.ByFile) {
			t.Fatalf("permutation %d: ByFile differs", i)
		}
		if !reflect.DeepEqual(got.FileRules, base.FileRules) {
			t.Fatalf("permutation %d: FileRules differs", i)
		}
	}
}

func TestAggregateConservation(t *testing.T) {
	records := []models.Record{
		rec("a.py", 1, 1, models.SeverityError, "ruleX"),
		rec("a.py", 2, 1, models.SeverityError, "ruleX"),
		rec("b.py", 1, 1, models.SeverityError, "ruleY"),
		rec("c.py", 1, 1, models.SeverityError, "ruleZ"),
		rec("c.py", 2, 1, models.SeverityWarning, "ruleZ"),
	}

	summary, err := New().Aggregate(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ruleSum := 0
	for _, n := range summary.ByRule {
		ruleSum += n
	}
	fileSum := 0
	for _, n := range summary.ByFile {
		fileSum += n
	}

	if ruleSum != summary.TotalErrors {
		t.Errorf("sum(ByRule) = %d, TotalErrors = %d", ruleSum, summary.TotalErrors)
	}
	if fileSum != summary.TotalErrors {
		t.Errorf("sum(ByFile) = %d, TotalErrors = %d", fileSum, summary.TotalErrors)
	}
}

func TestAggregateEmptyRuleName(t *testing.T) {
	records := []models.Record{
		rec("a.py", 1, 1, models.SeverityError, "ruleX"),
		rec("b.py", 7, 2, models.SeverityWarning, ""),
	}

	_, err := New().Aggregate(records)
	if err == nil {
		t.Fatal("expected EmptyRuleNameError")
	}
	var emptyRule *models.EmptyRuleNameError
	if !errors.As(err, &emptyRule) {
		t.Fatalf("expected *EmptyRuleNameError, got %T", err)
	}
	if emptyRule.File != "b.py" || emptyRule.Line != 7 {
		t.Errorf("error location = %s:%d, want b.py:7", emptyRule.File, emptyRule.Line)
	}
}

func TestAggregateUnknownRuleAccepted(t *testing.T) {
	// Forward compatibility: new checker versions may emit rules we have
	// never seen.
	records := []models.Record{
		rec("a.py", 1, 1, models.SeverityError, "reportSomethingInventedNextYear"),
	}
	summary, err := New().Aggregate(records)
	if err != nil {
		t.Fatalf("unknown rule must be accepted: %v", err)
	}
	if summary.ByRule["reportSomethingInventedNextYear"] != 1 {
		t.Error("unknown rule not counted")
	}
}

func TestAggregateMalformedRecordAbortsBatch(t *testing.T) {
	records := []models.Record{
		rec("a.py", 1, 1, models.SeverityError, "ruleX"),
		rec("b.py", 0, 1, models.SeverityError, "ruleY"), // bad line
	}
	_, err := New().Aggregate(records)
	var malformed *models.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedRecordError, got %v", err)
	}
}

func TestStrategyGenerator(t *testing.T) {
	summary := &models.Summary{
		TotalErrors: 40,
		ByRule: map[string]int{
			"reportMissingParameterType": 8,
			"reportReturnType":           4,
			"reportUnknownMemberType":    25,
			"reportGeneralTypeIssues":    3,
		},
	}
	ranking := &models.Ranking{
		Status: models.StatusRanked,
		Candidates: []models.Candidate{
			{File: "utils.py", ErrorCount: 5, DistinctRules: 1, RankScore: 1},
		},
	}

	s := NewStrategyGenerator().Generate(summary, ranking)

	if s.QuickWins != 12 {
		t.Errorf("QuickWins = %d, want 12", s.QuickWins)
	}
	if s.StubErrors != 25 {
		t.Errorf("StubErrors = %d, want 25", s.StubErrors)
	}
	if !s.StubPressure {
		t.Error("expected stub pressure above threshold")
	}
	if len(s.Suggestions) != 3 {
		t.Fatalf("Suggestions = %d entries, want 3: %v", len(s.Suggestions), s.Suggestions)
	}
}

func TestRuleHint(t *testing.T) {
	if RuleHint("reportReturnType") == "" {
		t.Error("expected hint for reportReturnType")
	}
	if RuleHint("someUnknownRule") != "" {
		t.Error("expected no hint for unknown rule")
	}
}
