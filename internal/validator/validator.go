package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/typeramp/typeramp/internal/ingest"
	"github.com/typeramp/typeramp/internal/models"
)

// ValidationError represents a validation failure for a diagnostics payload.
type ValidationError struct {
	Source string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload:\n  - %s", e.Source, strings.Join(e.Errors, "\n  - "))
}

// Validator validates diagnostics payloads without aggregating them.
type Validator struct{}

// New creates a new validator.
func New() *Validator {
	return &Validator{}
}

// ValidatePayload checks that the payload parses and that every record
// passes field validation. All problems are collected, not just the first.
func (v *Validator) ValidatePayload(data []byte) error {
	format, err := ingest.DetectFormat(data)
	if err != nil {
		return &ValidationError{
			Source: "diagnostics",
			Errors: []string{fmt.Sprintf("unrecognized payload: %v", err)},
		}
	}

	records, err := ingest.Parse(data, "")
	if err != nil {
		// Parse stops at the first malformed record. Re-walk the raw
		// payload to report every problem in one pass.
		problems := collectProblems(data, format)
		if len(problems) == 0 {
			problems = []string{err.Error()}
		}
		return &ValidationError{Source: string(format), Errors: problems}
	}

	var problems []string
	for i, rec := range records {
		if verr := rec.Validate(); verr != nil {
			problems = append(problems, fmt.Sprintf("record %d: %v", i, verr))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Source: string(format), Errors: problems}
	}
	return nil
}

// collectProblems validates each record of a flat payload individually,
// so the user sees every bad record instead of only the first.
func collectProblems(data []byte, format ingest.Format) []string {
	if format != ingest.FormatFlat {
		return nil
	}
	var payload struct {
		Diagnostics []models.Record `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return []string{fmt.Sprintf("failed to parse JSON: %v", err)}
	}
	var problems []string
	for i, rec := range payload.Diagnostics {
		if verr := rec.Validate(); verr != nil {
			problems = append(problems, fmt.Sprintf("record %d: %v", i, verr))
		}
	}
	return problems
}
