// Package ingest parses external checker output into diagnostic records.
// It is the only place that knows about checker wire formats; everything
// downstream consumes []models.Record.
package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/typeramp/typeramp/internal/models"
)

// unknownRule is assigned when the checker omits a rule identifier, which
// pyright does for syntax errors and a few internal diagnostics.
const unknownRule = "unknown"

// pyrightPayload mirrors the parts of pyright --outputjson we consume.
// The envelope's summary block is ignored; the aggregator recomputes all
// counts from the diagnostics themselves.
type pyrightPayload struct {
	GeneralDiagnostics []pyrightDiagnostic `json:"generalDiagnostics"`
}

type pyrightDiagnostic struct {
	File     string       `json:"file"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Rule     string       `json:"rule"`
	Range    pyrightRange `json:"range"`
}

type pyrightRange struct {
	Start pyrightPosition `json:"start"`
}

type pyrightPosition struct {
	Line      int `json:"line"`      // 0-based
	Character int `json:"character"` // 0-based
}

// flatPayload is the plain alternative shape: records as-is, 1-based.
type flatPayload struct {
	Diagnostics []models.Record `json:"diagnostics"`
}

// Parse detects the payload format and converts it into records.
// root, when non-empty, is stripped from absolute file paths so records
// carry repo-relative paths.
func Parse(data []byte, root string) ([]models.Record, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPyright:
		return parsePyright(data, root)
	case FormatFlat:
		return parseFlat(data, root)
	default:
		return nil, fmt.Errorf("unsupported payload format %q", format)
	}
}

// parsePyright converts a pyright envelope, normalizing its 0-based
// positions to the 1-based contract.
func parsePyright(data []byte, root string) ([]models.Record, error) {
	var payload pyrightPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse pyright payload: %w", err)
	}

	records := make([]models.Record, 0, len(payload.GeneralDiagnostics))
	for i, diag := range payload.GeneralDiagnostics {
		rule := diag.Rule
		if rule == "" {
			rule = unknownRule
		}

		rec, err := models.NewRecord(
			relativize(diag.File, root),
			diag.Range.Start.Line+1,
			diag.Range.Start.Character+1,
			models.Severity(diag.Severity),
			rule,
			diag.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("diagnostic %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// parseFlat converts the plain record-list shape, validating each record.
func parseFlat(data []byte, root string) ([]models.Record, error) {
	var payload flatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse diagnostics payload: %w", err)
	}

	records := make([]models.Record, 0, len(payload.Diagnostics))
	for i, rec := range payload.Diagnostics {
		if rec.Rule == "" {
			rec.Rule = unknownRule
		}
		rec.File = relativize(rec.File, root)
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("diagnostic %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// relativize shortens an absolute path to be relative to root when
// possible; other paths pass through untouched.
func relativize(path, root string) string {
	if root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
