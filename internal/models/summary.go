package models

import "time"

// Summary is the immutable result of one aggregation pass over a diagnostics
// payload. Error counts drive everything downstream; warnings are tracked in
// a separate table so noisy-but-harmless rules never skew the ranking.
type Summary struct {
	GeneratedAt      time.Time `json:"generated_at"`
	TotalErrors      int       `json:"total_errors"`
	TotalWarnings    int       `json:"total_warnings"`
	TotalInformation int       `json:"total_information"`

	// ByRule counts errors per rule identifier.
	ByRule map[string]int `json:"by_rule"`
	// ByRuleWarnings counts warnings per rule, kept out of the ranking.
	ByRuleWarnings map[string]int `json:"by_rule_warnings"`
	// ByFile counts errors per file.
	ByFile map[string]int `json:"by_file"`
	// FileRules lists the distinct rules seen per file, sorted. Its length
	// per file is the isolation proxy the prioritizer ranks on.
	FileRules map[string][]string `json:"file_rules"`
}

// DistinctRules returns how many distinct error rules were seen in file.
func (s *Summary) DistinctRules(file string) int {
	return len(s.FileRules[file])
}

// RankStatus distinguishes a real ranking from the terminal all-clear state.
type RankStatus string

const (
	// StatusAllClear means zero errors: there is nothing to rank and the
	// migration is done. Distinct from an empty candidate list so callers
	// never have to guess.
	StatusAllClear RankStatus = "all-clear"
	// StatusRanked means candidates are present, most recommended first.
	StatusRanked RankStatus = "ranked"
)

// Candidate is one file the prioritizer recommends working on, with the
// rationale behind its position.
type Candidate struct {
	File          string   `json:"file"`
	ErrorCount    int      `json:"error_count"`
	DistinctRules int      `json:"distinct_rules"`
	RankScore     int      `json:"rank_score"` // lower is better
	Rules         []string `json:"rules"`      // sorted distinct rules in this file
}

// Ranking is the prioritizer's output: either all-clear, or an ordered
// candidate list (most recommended first).
type Ranking struct {
	Status     RankStatus  `json:"status"`
	Candidates []Candidate `json:"candidates"`
}

// AllClear reports whether the ranking is the terminal success state.
func (r *Ranking) AllClear() bool {
	return r.Status == StatusAllClear
}

// AnalysisRun bundles one analysis result for storage and later trend,
// diff, and explain-rank queries.
type AnalysisRun struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // payload path or "checker"
	Summary   *Summary  `json:"summary"`
	Ranking   *Ranking  `json:"ranking"`
	Records   []Record  `json:"records"`
}
