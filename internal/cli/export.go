package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/typeramp/typeramp/internal/models"
	"github.com/typeramp/typeramp/internal/storage"
)

var (
	exportFormat string
	exportOutput string
	exportLastN  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export diagnostic history for external tooling",
	Long: `Export stored analysis runs in formats other tools consume: code
scanning dashboards, spreadsheets, or scripts tracking the rollout.

Supported formats:
  csv    Tabular format for spreadsheets
  json   Structured JSON for programmatic consumption
  sarif  SARIF 2.1.0 for GitHub code scanning

Example:
  typeramp export --format csv -o diagnostics.csv
  typeramp export --format sarif -o results.sarif --last 1
  typeramp export --format json --last 30 -o history.json`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv",
		"output format: csv, json, or sarif")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"write output to file (default: stdout)")
	exportCmd.Flags().IntVarP(&exportLastN, "last", "n", 1,
		"number of recent runs to include")
}

// ExportRecord is a single row in the export.
type ExportRecord struct {
	RunTimestamp string `json:"run_timestamp"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	Severity     string `json:"severity"`
	Rule         string `json:"rule"`
	Message      string `json:"message"`
	TotalErrors  int    `json:"total_errors"`
}

// Export is the full export payload.
type Export struct {
	ExportedAt  string         `json:"exported_at"`
	RunCount    int            `json:"run_count"`
	RecordCount int            `json:"record_count"`
	Records     []ExportRecord `json:"records"`
}

func runExport(cmd *cobra.Command, args []string) error {
	storagePath, err := getStoragePath(cfg.StorageDir)
	if err != nil {
		logError("Failed to get storage path: %v", err)
		return err
	}

	store := storage.NewLocal(storagePath)

	runs, err := store.GetLastNRuns(exportLastN)
	if err != nil || len(runs) == 0 {
		fmt.Println("No stored runs found. Run 'typeramp analyze --store' first.")
		return nil
	}

	logVerbose("Exporting %d runs", len(runs))

	export := buildExport(runs)

	var writer *os.File
	if exportOutput != "" {
		writer, err = os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = writer.Close() }()
	} else {
		writer = os.Stdout
	}

	switch exportFormat {
	case "csv":
		return writeCSV(writer, export)
	case "json":
		return writeExportJSON(writer, export)
	case "sarif":
		return writeSARIF(writer, runs)
	default:
		return fmt.Errorf("unsupported format: %s (use csv, json, or sarif)", exportFormat)
	}
}

func buildExport(runs []*models.AnalysisRun) *Export {
	var records []ExportRecord

	for _, run := range runs {
		ts := run.Timestamp.Format(time.RFC3339)
		total := 0
		if run.Summary != nil {
			total = run.Summary.TotalErrors
		}

		for _, rec := range run.Records {
			records = append(records, ExportRecord{
				RunTimestamp: ts,
				File:         rec.File,
				Line:         rec.Line,
				Column:       rec.Column,
				Severity:     string(rec.Severity),
				Rule:         rec.Rule,
				Message:      rec.Message,
				TotalErrors:  total,
			})
		}
	}

	// Sort by severity (errors first), then file, then line.
	sevOrder := map[string]int{"error": 0, "warning": 1, "information": 2}
	sort.Slice(records, func(i, j int) bool {
		si, sj := sevOrder[records[i].Severity], sevOrder[records[j].Severity]
		if si != sj {
			return si < sj
		}
		if records[i].File != records[j].File {
			return records[i].File < records[j].File
		}
		return records[i].Line < records[j].Line
	})

	return &Export{
		ExportedAt:  time.Now().Format(time.RFC3339),
		RunCount:    len(runs),
		RecordCount: len(records),
		Records:     records,
	}
}

func writeCSV(w *os.File, export *Export) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"run_timestamp", "file", "line", "column", "severity", "rule", "message", "total_errors"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range export.Records {
		row := []string{
			rec.RunTimestamp,
			rec.File,
			strconv.Itoa(rec.Line),
			strconv.Itoa(rec.Column),
			rec.Severity,
			rec.Rule,
			rec.Message,
			strconv.Itoa(rec.TotalErrors),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func writeExportJSON(w *os.File, export *Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// SARIF 2.1.0 structures, minimal subset for code scanning upload.
type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

func writeSARIF(w *os.File, runs []*models.AnalysisRun) error {
	rulesMap := map[string]sarifRule{}
	var results []sarifResult

	for _, run := range runs {
		for _, rec := range run.Records {
			if _, exists := rulesMap[rec.Rule]; !exists {
				rulesMap[rec.Rule] = sarifRule{
					ID:               rec.Rule,
					ShortDescription: sarifMessage{Text: "pyright " + rec.Rule},
					DefaultConfig:    sarifDefaultConfig{Level: sarifLevel(rec.Severity)},
				}
			}

			results = append(results, sarifResult{
				RuleID:  rec.Rule,
				Level:   sarifLevel(rec.Severity),
				Message: sarifMessage{Text: rec.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysical{
						ArtifactLocation: sarifArtifact{URI: rec.File},
						Region: sarifRegion{
							StartLine:   rec.Line,
							StartColumn: rec.Column,
						},
					},
				}},
			})
		}
	}

	var rules []sarifRule
	for _, r := range rulesMap {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:    "typeramp",
					Version: buildVersion,
					Rules:   rules,
				},
			},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLevel(severity models.Severity) string {
	switch severity {
	case models.SeverityError:
		return "error"
	case models.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
