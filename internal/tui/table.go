package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/typeramp/typeramp/internal/models"
)

var tableColumns = []table.Column{
	{Title: "Severity", Width: 10},
	{Title: "File", Width: 32},
	{Title: "Line", Width: 6},
	{Title: "Rule", Width: 26},
	{Title: "Message", Width: 40},
}

// buildRows converts diagnostic records to table rows.
func buildRows(records []models.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			severityLabel(rec.Severity),
			truncate(rec.File, tableColumns[1].Width),
			fmt.Sprintf("%d", rec.Line),
			truncate(rec.Rule, tableColumns[3].Width),
			truncate(rec.Message, tableColumns[4].Width),
		})
	}
	return rows
}

func severityLabel(s models.Severity) string {
	switch s {
	case models.SeverityError:
		return "ERROR"
	case models.SeverityWarning:
		return "WARN"
	case models.SeverityInformation:
		return "INFO"
	default:
		return string(s)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return s[:maxLen]
	}
	return s[:maxLen-len(ellipsis)] + ellipsis
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
