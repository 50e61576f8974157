package tui

import "github.com/charmbracelet/lipgloss"

// Severity colors
var (
	colorError   = lipgloss.Color("#FF0000")
	colorWarning = lipgloss.Color("#FFFF00")
	colorInfo    = lipgloss.Color("#00FFFF")
	colorOK      = lipgloss.Color("#00FF00")
	colorMuted   = lipgloss.Color("#888888")
	colorAccent  = lipgloss.Color("#7B68EE")
	colorBorder  = lipgloss.Color("#444444")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)
)

// severityStyle returns the lipgloss style for a severity level.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "error":
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case "warning":
		return lipgloss.NewStyle().Foreground(colorWarning)
	case "information":
		return lipgloss.NewStyle().Foreground(colorInfo)
	default:
		return lipgloss.NewStyle()
	}
}

// trendStyle returns the lipgloss style for a trend direction.
func trendStyle(direction string) lipgloss.Style {
	switch direction {
	case "improving":
		return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	case "degrading":
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
