package models

import (
	"errors"
	"testing"
)

func TestNewRecordValid(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
	}{
		{"error", SeverityError},
		{"warning", SeverityWarning},
		{"information", SeverityInformation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecord("src/api.py", 12, 5, tt.severity, "reportMissingParameterType", "param x is untyped")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.File != "src/api.py" || rec.Line != 12 || rec.Column != 5 {
				t.Errorf("position not preserved: %+v", rec)
			}
			if rec.Severity != tt.severity {
				t.Errorf("severity = %q, want %q", rec.Severity, tt.severity)
			}
		})
	}
}

func TestNewRecordMalformed(t *testing.T) {
	tests := []struct {
		name      string
		line, col int
		severity  Severity
		wantField string
	}{
		{"unknown severity", 1, 1, "fatal", "severity"},
		{"empty severity", 1, 1, "", "severity"},
		{"zero line", 0, 1, SeverityError, "line"},
		{"negative line", -3, 1, SeverityError, "line"},
		{"zero column", 1, 0, SeverityError, "column"},
		{"negative column", 1, -1, SeverityError, "column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord("a.py", tt.line, tt.col, tt.severity, "ruleX", "msg")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedRecordError, got %T", err)
			}
			if malformed.Field != tt.wantField {
				t.Errorf("field = %q, want %q", malformed.Field, tt.wantField)
			}
		})
	}
}

func TestRecordDuplicatesAllowed(t *testing.T) {
	// The model does not deduplicate: two identical records are both valid.
	a, err1 := NewRecord("a.py", 1, 1, SeverityError, "ruleX", "dup")
	b, err2 := NewRecord("a.py", 1, 1, SeverityError, "ruleX", "dup")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if a != b {
		t.Error("identical inputs should produce identical records")
	}
}

func TestParseProfile(t *testing.T) {
	for _, name := range []string{"basic", "standard", "strict"} {
		if _, ok := ParseProfile(name); !ok {
			t.Errorf("ParseProfile(%q) not recognized", name)
		}
	}
	if _, ok := ParseProfile("paranoid"); ok {
		t.Error("ParseProfile accepted unknown profile")
	}
}
