// Package prioritizer ranks files from an aggregated summary to suggest
// where to start fixing.
//
// Without a real import graph (building one is out of scope), the number of
// distinct rule categories in a file stands in for isolation: a file that
// trips only one category usually needs one kind of fix and is unlikely to
// cascade edits into other files.
package prioritizer

import (
	"fmt"
	"sort"

	"github.com/typeramp/typeramp/internal/models"
)

// NonDeterministicTieError signals that two candidates compared equal on
// every ranking key, including the file path. The path is unique per file,
// so this cannot happen unless the ranking logic regresses. It exists as an
// invariant guard and is fatal.
type NonDeterministicTieError struct {
	FileA string
	FileB string
}

func (e *NonDeterministicTieError) Error() string {
	return fmt.Sprintf("non-deterministic tie between %q and %q", e.FileA, e.FileB)
}

// Prioritizer derives an ordered candidate list from a summary.
type Prioritizer struct{}

// New creates a new prioritizer.
func New() *Prioritizer {
	return &Prioritizer{}
}

// Prioritize ranks the files in the summary, most recommended first.
//
// Ordering policy, applied exactly and reproducibly:
//  1. distinct rule count ascending (fewer categories = simpler, more
//     isolated fixes)
//  2. error count descending (prefer impact among equally isolated files)
//  3. file path lexicographic (deterministic final tie-break)
//
// A summary with zero errors yields StatusAllClear with no candidates,
// never an ambiguous empty list.
func (p *Prioritizer) Prioritize(summary *models.Summary) (*models.Ranking, error) {
	if summary.TotalErrors == 0 {
		return &models.Ranking{Status: models.StatusAllClear}, nil
	}

	candidates := make([]models.Candidate, 0, len(summary.ByFile))
	for file, count := range summary.ByFile {
		distinct := summary.DistinctRules(file)
		candidates = append(candidates, models.Candidate{
			File:          file,
			ErrorCount:    count,
			DistinctRules: distinct,
			RankScore:     distinct,
			Rules:         summary.FileRules[file],
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DistinctRules != b.DistinctRules {
			return a.DistinctRules < b.DistinctRules
		}
		if a.ErrorCount != b.ErrorCount {
			return a.ErrorCount > b.ErrorCount
		}
		return a.File < b.File
	})

	// Invariant guard: the path tie-break makes full ties impossible.
	for i := 1; i < len(candidates); i++ {
		a, b := candidates[i-1], candidates[i]
		if a.DistinctRules == b.DistinctRules && a.ErrorCount == b.ErrorCount && a.File == b.File {
			return nil, &NonDeterministicTieError{FileA: a.File, FileB: b.File}
		}
	}

	return &models.Ranking{Status: models.StatusRanked, Candidates: candidates}, nil
}
