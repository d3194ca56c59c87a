package fusion

import (
	"sort"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Comparator scores, ranks and recommends among engine outputs.
type Comparator struct {
	scorer *Scorer
}

// NewComparator creates a comparator with the given weights.
func NewComparator(weights domain.ScoringWeights) *Comparator {
	return &Comparator{scorer: NewScorer(weights)}
}

// NewDefaultComparator creates a comparator with the standard weights.
func NewDefaultComparator() *Comparator {
	return NewComparator(domain.DefaultScoringWeights())
}

// Scorer returns the underlying scorer.
func (c *Comparator) Scorer() *Scorer {
	return c.scorer
}

// Compare ranks results by score, highest first, ties in input order.
// Empty input yields a report with only Error set. Errored engines are
// ranked but never chosen as BestProcessor; when none is valid
// BestProcessor is nil.
func (c *Comparator) Compare(results []domain.RawExtraction) *domain.ComparisonReport {
	if len(results) == 0 {
		return &domain.ComparisonReport{Error: domain.ErrEmptyInput.Error()}
	}

	report := &domain.ComparisonReport{
		TotalEngines: len(results),
		Engines:      make([]string, len(results)),
		Metrics:      make([]domain.Metric, len(results)),
		Rankings:     make([]domain.ScoredResult, len(results)),
	}

	for i := range results {
		scored := c.scorer.ScoreExtraction(i, &results[i])
		report.Engines[i] = scored.EngineID
		report.Metrics[i] = scored.Metrics
		report.Rankings[i] = scored
	}

	sort.SliceStable(report.Rankings, func(i, j int) bool {
		return report.Rankings[i].Score > report.Rankings[j].Score
	})

	for i := range report.Rankings {
		if !report.Rankings[i].Metrics.HasErrors {
			best := report.Rankings[i]
			report.BestProcessor = &best
			break
		}
	}

	report.Recommendations = Recommendations(report.Metrics)
	return report
}
