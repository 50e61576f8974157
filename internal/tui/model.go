package tui

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
)

// mode represents the current UI interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilterRule
)

const defaultTableHeight = 15

// Model is the top-level Bubble Tea model for the browse TUI.
type Model struct {
	// Data (immutable after init)
	run        *models.AnalysisRun
	trend      *aggregator.Trend
	sparkline  []int
	allRecords []models.Record

	// UI state
	table           table.Model
	searchInput     textinput.Model
	filteredRecords []models.Record
	filters         filterState
	sortBy          sortField
	mode            mode
	ruleChoices     []string
	ruleCursor      int
	width           int
	height          int
	statusMsg       string
	// clipboard is captured here for testing instead of writing to stdout
	clipboard string
}

// New creates a new TUI model from a stored analysis run.
func New(run *models.AnalysisRun, trend *aggregator.Trend, sparkline []int) Model {
	records := make([]models.Record, len(run.Records))
	copy(records, run.Records)

	sortRecords(records, sortBySeverity)
	rows := buildRows(records)
	t := newTable(rows, defaultTableHeight)

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 64

	return Model{
		run:             run,
		trend:           trend,
		sparkline:       sparkline,
		allRecords:      records,
		filteredRecords: records,
		table:           t,
		searchInput:     ti,
		sortBy:          sortBySeverity,
		mode:            modeNormal,
		ruleChoices:     uniqueRules(records),
		width:           80,
		height:          24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		tableH := msg.Height - headerHeight - detailHeight - 3
		if tableH < 3 {
			tableH = 3
		}
		m.table.SetHeight(tableH)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	default:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilterRule:
		return m.handleFilterRuleKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.FilterRule):
		m.mode = modeFilterRule
		m.ruleCursor = 0
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortField(sortFieldCount)
		m.rebuildTable()
		m.statusMsg = fmt.Sprintf("Sort: %s", sortFieldName(m.sortBy))
		return m, nil
	case key.Matches(msg, keys.Copy):
		m.copySelectedRecord()
		return m, nil
	case key.Matches(msg, keys.ClearFilter):
		m.filters = filterState{}
		m.statusMsg = ""
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.SearchText = m.searchInput.Value()
		m.mode = modeNormal
		m.searchInput.Blur()
		m.rebuildTable()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFilterRuleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.ruleCursor > 0 {
			m.ruleCursor--
		}
	case "down", "j":
		if m.ruleCursor < len(m.ruleChoices) {
			m.ruleCursor++
		}
	case "enter":
		if m.ruleCursor == 0 {
			m.filters.Rule = ""
		} else if m.ruleCursor <= len(m.ruleChoices) {
			m.filters.Rule = m.ruleChoices[m.ruleCursor-1]
		}
		m.mode = modeNormal
		m.rebuildTable()
		if m.filters.Rule != "" {
			m.statusMsg = fmt.Sprintf("Filter: %s", m.filters.Rule)
		} else {
			m.statusMsg = ""
		}
	case "esc":
		m.mode = modeNormal
	}
	return m, nil
}

func (m *Model) rebuildTable() {
	filtered := applyFilters(m.allRecords, m.filters)
	sortRecords(filtered, m.sortBy)
	m.filteredRecords = filtered
	m.table.SetRows(buildRows(filtered))
}

func (m *Model) selectedRecord() *models.Record {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.filteredRecords) {
		return nil
	}
	return &m.filteredRecords[cursor]
}

// copySelectedRecord writes the selected record to clipboard via OSC 52.
func (m *Model) copySelectedRecord() {
	rec := m.selectedRecord()
	if rec == nil {
		m.statusMsg = "Nothing to copy"
		return
	}
	text := fmt.Sprintf("%s:%d:%d [%s] %s", rec.File, rec.Line, rec.Column, rec.Rule, rec.Message)
	m.clipboard = text
	m.statusMsg = "Copied!"
	// OSC 52 clipboard escape: works in most modern terminals
	fmt.Printf("\033]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m.run, m.trend, m.sparkline, m.width))
	b.WriteString("\n")

	// Search bar overlay
	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	// Rule filter overlay
	if m.mode == modeFilterRule {
		b.WriteString(m.renderRuleFilter())
		b.WriteString("\n")
	}

	// Table
	b.WriteString(m.table.View())
	b.WriteString("\n")

	// Detail panel
	b.WriteString(renderDetail(m.selectedRecord(), m.width))
	b.WriteString("\n")

	// Footer
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderRuleFilter() string {
	var b strings.Builder
	b.WriteString("Filter by rule:\n")

	options := append([]string{"All"}, m.ruleChoices...)
	for i, opt := range options {
		cursor := "  "
		if i == m.ruleCursor {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, opt))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	left := "q:quit  /:search  r:rule  s:sort  c:copy  esc:clear"
	right := fmt.Sprintf("%d/%d diagnostics", len(m.filteredRecords), len(m.allRecords))

	if m.statusMsg != "" {
		right = m.statusMsg + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program. Called from the browse command.
func Run(run *models.AnalysisRun, trend *aggregator.Trend, sparkline []int) error {
	m := New(run, trend, sparkline)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
