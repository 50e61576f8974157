package tui

import (
	"fmt"
	"strings"

	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 5

// renderDetail produces the detail view for a selected record.
func renderDetail(rec *models.Record, width int) string {
	if rec == nil {
		return styleDetailPanel.Width(width).Render("No diagnostic selected")
	}

	var b strings.Builder

	sevStyled := severityStyle(string(rec.Severity)).Render(strings.ToUpper(string(rec.Severity)))
	b.WriteString(fmt.Sprintf("%s  %s\n", sevStyled, rec.Rule))
	b.WriteString(fmt.Sprintf("Location: %s:%d:%d\n", rec.File, rec.Line, rec.Column))

	if rec.Message != "" {
		b.WriteString(fmt.Sprintf("Message:  %s\n", rec.Message))
	}

	if hint := aggregator.RuleHint(rec.Rule); hint != "" {
		b.WriteString(fmt.Sprintf("Hint:     %s", hint))
	}

	return styleDetailPanel.Width(width).Render(b.String())
}
