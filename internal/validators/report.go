package validators

import (
	"sort"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
)

// Report is the aggregated outcome of validating one document.
type Report struct {
	// Results are ordered by document position; results for the same node
	// keep the order their validators produced them in.
	Results []domain.VocabularyValidationResult

	// Counts holds the number of results per severity.
	Counts map[domain.Severity]int

	// Nodes is the number of node/validator evaluations performed.
	Nodes int
}

// NewReport sorts results into document order and tallies severities.
func NewReport(results []domain.VocabularyValidationResult, nodes int) *Report {
	sorted := make([]domain.VocabularyValidationResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Result.Position < sorted[j].Result.Position
	})

	counts := make(map[domain.Severity]int, len(domain.Severities))
	for _, r := range sorted {
		counts[r.Level]++
	}
	return &Report{Results: sorted, Counts: counts, Nodes: nodes}
}

// HasErrors reports whether any result is at ERROR level.
func (r *Report) HasErrors() bool {
	return r.Counts[domain.SeverityError] > 0
}

// AtLeast returns the results whose severity is at or above min.
func (r *Report) AtLeast(min domain.Severity) []domain.VocabularyValidationResult {
	var out []domain.VocabularyValidationResult
	for _, res := range r.Results {
		if res.Level.Rank() <= min.Rank() {
			out = append(out, res)
		}
	}
	return out
}
