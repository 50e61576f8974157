package aggregator

import (
	"sort"
	"time"

	"github.com/typeramp/typeramp/internal/models"
)

// Aggregator folds a diagnostics payload into summary tables.
type Aggregator struct{}

// New creates a new aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Aggregate performs a single pass over the records and builds a Summary.
//
// Errors feed the by-rule and by-file tables and the per-file distinct-rule
// sets. Warnings are counted in a separate table so they never influence
// the ranking. Information-level findings are tallied but not broken down.
//
// The result is independent of input order: callers may feed records in
// checker-emission order, file-sorted order, or any permutation.
//
// An empty payload is valid and means the migration is done. Construction
// is strict: the first malformed record or empty rule name aborts the whole
// batch, since a partial summary would hand the prioritizer a wrong picture.
func (a *Aggregator) Aggregate(records []models.Record) (*models.Summary, error) {
	summary := &models.Summary{
		GeneratedAt:    time.Now(),
		ByRule:         make(map[string]int),
		ByRuleWarnings: make(map[string]int),
		ByFile:         make(map[string]int),
		FileRules:      make(map[string][]string),
	}

	fileRuleSets := make(map[string]map[string]struct{})

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		if rec.Rule == "" {
			return nil, &models.EmptyRuleNameError{File: rec.File, Line: rec.Line}
		}

		switch rec.Severity {
		case models.SeverityError:
			summary.TotalErrors++
			summary.ByRule[rec.Rule]++
			summary.ByFile[rec.File]++
			set := fileRuleSets[rec.File]
			if set == nil {
				set = make(map[string]struct{})
				fileRuleSets[rec.File] = set
			}
			set[rec.Rule] = struct{}{}
		case models.SeverityWarning:
			summary.TotalWarnings++
			summary.ByRuleWarnings[rec.Rule]++
		case models.SeverityInformation:
			summary.TotalInformation++
		}
	}

	// Materialize rule sets as sorted slices so the summary serializes
	// identically regardless of input order.
	for file, set := range fileRuleSets {
		rules := make([]string, 0, len(set))
		for rule := range set {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		summary.FileRules[file] = rules
	}

	return summary, nil
}
