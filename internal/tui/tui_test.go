package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/typeramp/typeramp/internal/models"
)

func testRecords() []models.Record {
	return []models.Record{
		{File: "api/views.py", Line: 12, Column: 5, Severity: models.SeverityError,
			Rule: "reportGeneralTypeIssues", Message: "expression of type None"},
		{File: "core/utils.py", Line: 3, Column: 1, Severity: models.SeverityWarning,
			Rule: "reportUnusedImport", Message: "import os is not accessed"},
		{File: "api/models.py", Line: 40, Column: 9, Severity: models.SeverityError,
			Rule: "reportMissingImports", Message: "cannot resolve import"},
		{File: "core/config.py", Line: 7, Column: 2, Severity: models.SeverityInformation,
			Rule: "reportUnusedImport", Message: "import sys is not accessed"},
	}
}

func testRun() *models.AnalysisRun {
	records := testRecords()
	return &models.AnalysisRun{
		Timestamp: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Source:    "pyright.json",
		Summary: &models.Summary{
			TotalErrors:      2,
			TotalWarnings:    1,
			TotalInformation: 1,
			ByRule:           map[string]int{"reportGeneralTypeIssues": 1, "reportMissingImports": 1},
			ByFile:           map[string]int{"api/views.py": 1, "api/models.py": 1},
		},
		Ranking: &models.Ranking{
			Status: models.StatusRanked,
			Candidates: []models.Candidate{
				{File: "api/models.py", ErrorCount: 1, DistinctRules: 1, Rules: []string{"reportMissingImports"}},
				{File: "api/views.py", ErrorCount: 1, DistinctRules: 1, Rules: []string{"reportGeneralTypeIssues"}},
			},
		},
		Records: records,
	}
}

// --- Filter tests ---

func TestApplyFiltersNoFilter(t *testing.T) {
	records := testRecords()
	result := applyFilters(records, filterState{})
	if len(result) != len(records) {
		t.Errorf("expected %d records, got %d", len(records), len(result))
	}
}

func TestApplyFiltersRuleFilter(t *testing.T) {
	result := applyFilters(testRecords(), filterState{Rule: "reportUnusedImport"})
	if len(result) != 2 {
		t.Errorf("expected 2 reportUnusedImport records, got %d", len(result))
	}
	for _, r := range result {
		if r.Rule != "reportUnusedImport" {
			t.Errorf("expected reportUnusedImport, got %s", r.Rule)
		}
	}
}

func TestApplyFiltersSeverityFilter(t *testing.T) {
	result := applyFilters(testRecords(), filterState{Severity: "error"})
	if len(result) != 2 {
		t.Errorf("expected 2 error records, got %d", len(result))
	}
}

func TestApplyFiltersSearchText(t *testing.T) {
	result := applyFilters(testRecords(), filterState{SearchText: "views"})
	if len(result) != 1 {
		t.Fatalf("expected 1 record matching 'views', got %d", len(result))
	}
	if result[0].File != "api/views.py" {
		t.Errorf("expected api/views.py, got %s", result[0].File)
	}
}

func TestApplyFiltersCaseInsensitive(t *testing.T) {
	result := applyFilters(testRecords(), filterState{SearchText: "VIEWS"})
	if len(result) != 1 {
		t.Errorf("expected 1 record matching 'VIEWS' case-insensitive, got %d", len(result))
	}
}

func TestApplyFiltersCombined(t *testing.T) {
	result := applyFilters(testRecords(), filterState{Rule: "reportUnusedImport", SearchText: "sys"})
	if len(result) != 1 {
		t.Errorf("expected 1 record, got %d", len(result))
	}
}

// --- Sort tests ---

func TestSortRecordsBySeverity(t *testing.T) {
	records := testRecords()
	sortRecords(records, sortBySeverity)
	if records[0].Severity != models.SeverityError {
		t.Errorf("expected error first, got %s", records[0].Severity)
	}
	if records[len(records)-1].Severity != models.SeverityInformation {
		t.Errorf("expected information last, got %s", records[len(records)-1].Severity)
	}
}

func TestSortRecordsByFile(t *testing.T) {
	records := testRecords()
	sortRecords(records, sortByFile)
	if records[0].File != "api/models.py" {
		t.Errorf("expected api/models.py first, got %s", records[0].File)
	}
}

func TestSortRecordsByLine(t *testing.T) {
	records := testRecords()
	sortRecords(records, sortByLine)
	if records[0].Line != 3 {
		t.Errorf("expected line 3 first, got %d", records[0].Line)
	}
}

func TestUniqueRulesSorted(t *testing.T) {
	rules := uniqueRules(testRecords())
	want := []string{"reportGeneralTypeIssues", "reportMissingImports", "reportUnusedImport"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, r := range rules {
		if r != want[i] {
			t.Errorf("rules[%d] = %s, want %s", i, r, want[i])
		}
	}
}

// --- Model tests ---

func TestNewModelDefaults(t *testing.T) {
	m := New(testRun(), nil, nil)

	if len(m.allRecords) != 4 {
		t.Errorf("expected 4 records, got %d", len(m.allRecords))
	}
	if m.mode != modeNormal {
		t.Errorf("expected normal mode")
	}
	if m.sortBy != sortBySeverity {
		t.Errorf("expected severity sort default")
	}
}

func TestModelQuitKey(t *testing.T) {
	m := New(testRun(), nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestModelSortCycle(t *testing.T) {
	m := New(testRun(), nil, nil)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m2 := updated.(Model)
	if m2.sortBy != sortByFile {
		t.Errorf("expected sortByFile after one cycle, got %v", m2.sortBy)
	}
	if !strings.Contains(m2.statusMsg, "file") {
		t.Errorf("status message = %q", m2.statusMsg)
	}
}

func TestModelSearchFlow(t *testing.T) {
	m := New(testRun(), nil, nil)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m2 := updated.(Model)
	if m2.mode != modeSearch {
		t.Fatal("expected search mode after /")
	}

	for _, r := range "views" {
		updated, _ = m2.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m2 = updated.(Model)
	}
	updated, _ = m2.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m2 = updated.(Model)

	if m2.mode != modeNormal {
		t.Error("expected normal mode after enter")
	}
	if len(m2.filteredRecords) != 1 {
		t.Errorf("expected 1 filtered record, got %d", len(m2.filteredRecords))
	}
}

func TestModelRuleFilterFlow(t *testing.T) {
	m := New(testRun(), nil, nil)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m2 := updated.(Model)
	if m2.mode != modeFilterRule {
		t.Fatal("expected rule filter mode after r")
	}

	// Move to the first rule then select it.
	updated, _ = m2.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m2 = updated.(Model)
	updated, _ = m2.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m2 = updated.(Model)

	if m2.filters.Rule != "reportGeneralTypeIssues" {
		t.Errorf("filter rule = %q", m2.filters.Rule)
	}
	if len(m2.filteredRecords) != 1 {
		t.Errorf("expected 1 filtered record, got %d", len(m2.filteredRecords))
	}
}

func TestModelClearFilter(t *testing.T) {
	m := New(testRun(), nil, nil)
	m.filters = filterState{Rule: "reportUnusedImport"}
	m.rebuildTable()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m2 := updated.(Model)

	if m2.filters != (filterState{}) {
		t.Errorf("filters not cleared: %+v", m2.filters)
	}
	if len(m2.filteredRecords) != 4 {
		t.Errorf("expected all records back, got %d", len(m2.filteredRecords))
	}
}

func TestModelCopySelected(t *testing.T) {
	m := New(testRun(), nil, nil)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m2 := updated.(Model)

	if m2.clipboard == "" {
		t.Fatal("expected clipboard content")
	}
	if !strings.Contains(m2.clipboard, ".py:") {
		t.Errorf("clipboard = %q", m2.clipboard)
	}
	if m2.statusMsg != "Copied!" {
		t.Errorf("status = %q", m2.statusMsg)
	}
}

// --- View tests ---

func TestViewRendersHeaderAndFooter(t *testing.T) {
	m := New(testRun(), nil, []int{5, 3, 2})
	view := m.View()

	if !strings.Contains(view, "Typeramp") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "Start with: api/models.py") {
		t.Errorf("view missing ranking hint:\n%s", view)
	}
	if !strings.Contains(view, "4/4 diagnostics") {
		t.Error("view missing footer counts")
	}
}

func TestRenderDetailWithHint(t *testing.T) {
	rec := &models.Record{
		File: "a.py", Line: 3, Column: 1,
		Severity: models.SeverityError,
		Rule:     "reportOptionalMemberAccess",
		Message:  "item is possibly None",
	}

	detail := renderDetail(rec, 80)
	if !strings.Contains(detail, "a.py:3:1") {
		t.Errorf("detail missing location:\n%s", detail)
	}
	if !strings.Contains(detail, "Hint:") {
		t.Errorf("detail missing rule hint:\n%s", detail)
	}
}

func TestRenderDetailNil(t *testing.T) {
	detail := renderDetail(nil, 80)
	if !strings.Contains(detail, "No diagnostic selected") {
		t.Errorf("unexpected empty detail:\n%s", detail)
	}
}

func TestRenderSparklineFlat(t *testing.T) {
	out := renderSparkline([]int{3, 3, 3})
	if !strings.Contains(out, "[3→3]") {
		t.Errorf("sparkline = %q", out)
	}
}

func TestTruncateLongString(t *testing.T) {
	got := truncate("a/very/long/path/to/some/module.py", 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q", got)
	}
}
