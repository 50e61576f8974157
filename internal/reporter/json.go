package reporter

import (
	"encoding/json"
	"io"

	"github.com/typeramp/typeramp/internal/aggregator"
	"github.com/typeramp/typeramp/internal/models"
)

// JSONReporter generates machine-readable JSON reports.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{writer: writer, pretty: pretty}
}

// jsonReport is the serialized shape of a full report.
type jsonReport struct {
	Summary  *models.Summary      `json:"summary"`
	Ranking  *models.Ranking      `json:"ranking,omitempty"`
	Strategy *aggregator.Strategy `json:"strategy,omitempty"`
	Trend    *aggregator.Trend    `json:"trend,omitempty"`
}

// Generate serializes the report to JSON.
func (r *JSONReporter) Generate(report *Report) error {
	payload := jsonReport{
		Summary:  report.Summary,
		Ranking:  report.Ranking,
		Strategy: report.Strategy,
		Trend:    report.Trend,
	}

	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return err
	}

	if _, err := r.writer.Write(data); err != nil {
		return err
	}

	// Trailing newline for terminal output.
	_, err = r.writer.Write([]byte("\n"))
	return err
}
