package tui

import (
	"sort"
	"strings"

	"github.com/typeramp/typeramp/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	Rule       string
	Severity   string
	SearchText string
}

// sortField enumerates columns that can be sorted.
type sortField int

const (
	sortBySeverity sortField = iota
	sortByFile
	sortByRule
	sortByLine
)

// sortFieldCount is the total number of sortable columns.
const sortFieldCount = 4

var severityPriority = map[models.Severity]int{
	models.SeverityError:       0,
	models.SeverityWarning:     1,
	models.SeverityInformation: 2,
}

// applyFilters returns records matching all active filters.
func applyFilters(records []models.Record, f filterState) []models.Record {
	result := make([]models.Record, 0, len(records))
	searchLower := strings.ToLower(f.SearchText)

	for _, rec := range records {
		if f.Rule != "" && rec.Rule != f.Rule {
			continue
		}
		if f.Severity != "" && string(rec.Severity) != f.Severity {
			continue
		}
		if searchLower != "" && !matchesSearch(rec, searchLower) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func matchesSearch(rec models.Record, searchLower string) bool {
	return strings.Contains(strings.ToLower(rec.File), searchLower) ||
		strings.Contains(strings.ToLower(rec.Rule), searchLower) ||
		strings.Contains(strings.ToLower(string(rec.Severity)), searchLower) ||
		strings.Contains(strings.ToLower(rec.Message), searchLower)
}

// sortRecords sorts a slice of records in place by the given field.
func sortRecords(records []models.Record, field sortField) {
	sort.SliceStable(records, func(i, j int) bool {
		switch field {
		case sortBySeverity:
			return severityPriority[records[i].Severity] < severityPriority[records[j].Severity]
		case sortByFile:
			return records[i].File < records[j].File
		case sortByRule:
			return records[i].Rule < records[j].Rule
		case sortByLine:
			return records[i].Line < records[j].Line
		default:
			return false
		}
	})
}

// uniqueRules returns deduplicated, sorted rule names from records.
func uniqueRules(records []models.Record) []string {
	seen := make(map[string]bool)
	var rules []string
	for _, rec := range records {
		if !seen[rec.Rule] {
			seen[rec.Rule] = true
			rules = append(rules, rec.Rule)
		}
	}
	sort.Strings(rules)
	return rules
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortBySeverity:
		return "severity"
	case sortByFile:
		return "file"
	case sortByRule:
		return "rule"
	case sortByLine:
		return "line"
	default:
		return "unknown"
	}
}
