package models

import "fmt"

// MalformedRecordError reports a diagnostic record that violates the input
// contract (unrecognized severity, non-positive line or column).
type MalformedRecordError struct {
	Field string // offending field name
	Value string // offending value, stringified
	File  string // record's file path, for context
	Line  int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %s:%d: invalid %s %q", e.File, e.Line, e.Field, e.Value)
}

// EmptyRuleNameError reports a record with an empty rule identifier.
// This is a data contract violation and aborts the whole batch: a summary
// built with anonymous rules would misdirect the prioritizer.
type EmptyRuleNameError struct {
	File string
	Line int
}

func (e *EmptyRuleNameError) Error() string {
	return fmt.Sprintf("record at %s:%d has an empty rule name", e.File, e.Line)
}
