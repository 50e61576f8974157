package ingest

import (
	"encoding/json"
	"fmt"
)

// Format identifies the wire shape of a diagnostics payload.
type Format string

const (
	// FormatPyright is pyright's --outputjson envelope.
	FormatPyright Format = "pyright"
	// FormatFlat is a plain {"diagnostics": [...]} list already in record
	// shape, 1-based positions.
	FormatFlat Format = "flat"
	// FormatUnknown means no recognized structure was found.
	FormatUnknown Format = "unknown"
)

// DetectFormat identifies which payload shape the data carries.
// Detection is structural: the pyright envelope has a generalDiagnostics
// array, the flat shape a diagnostics array. Swapping in a new checker
// means teaching this function its envelope, nothing more.
func DetectFormat(data []byte) (Format, error) {
	var probe struct {
		GeneralDiagnostics []json.RawMessage `json:"generalDiagnostics"`
		Diagnostics        []json.RawMessage `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return FormatUnknown, fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if probe.GeneralDiagnostics != nil {
		return FormatPyright, nil
	}
	if probe.Diagnostics != nil {
		return FormatFlat, nil
	}
	return FormatUnknown, fmt.Errorf("unrecognized diagnostics payload: no generalDiagnostics or diagnostics field")
}
