package models

import "strconv"

// Severity classifies a diagnostic finding.
// Unlike rule identifiers, severity is a closed set: checkers disagree on
// rule vocabularies but every one of them emits these three levels.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Valid reports whether s is one of the recognized severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInformation:
		return true
	}
	return false
}

// Record is one normalized finding from a type-checking pass.
// It is the atomic unit the aggregator and prioritizer operate on.
// Duplicate findings (same file, position, and rule) are legal and are
// counted as-is; deduplication is the checker's business, not ours.
type Record struct {
	File     string   `json:"file"`     // repo-relative path
	Line     int      `json:"line"`     // 1-based
	Column   int      `json:"column"`   // 1-based
	Severity Severity `json:"severity"` // error, warning, information
	Rule     string   `json:"rule"`     // checker-defined category, open set
	Message  string   `json:"message"`  // free text, never parsed
}

// NewRecord builds a validated Record. It fails with *MalformedRecordError
// when the severity is unrecognized or line/column are not positive.
func NewRecord(file string, line, column int, severity Severity, rule, message string) (Record, error) {
	rec := Record{
		File:     file,
		Line:     line,
		Column:   column,
		Severity: severity,
		Rule:     rule,
		Message:  message,
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Validate checks the record against the input contract.
func (r Record) Validate() error {
	if !r.Severity.Valid() {
		return &MalformedRecordError{
			Field: "severity",
			Value: string(r.Severity),
			File:  r.File,
			Line:  r.Line,
		}
	}
	if r.Line <= 0 {
		return &MalformedRecordError{Field: "line", Value: strconv.Itoa(r.Line), File: r.File, Line: r.Line}
	}
	if r.Column <= 0 {
		return &MalformedRecordError{Field: "column", Value: strconv.Itoa(r.Column), File: r.File, Line: r.Line}
	}
	return nil
}
