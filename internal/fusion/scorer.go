package fusion

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Scorer derives metrics and heuristic scores from extractions.
type Scorer struct {
	weights domain.ScoringWeights
}

// NewScorer creates a scorer. A non-positive text length divisor falls back
// to the default so scores stay finite.
func NewScorer(weights domain.ScoringWeights) *Scorer {
	if weights.TextLengthDivisor <= 0 {
		weights.TextLengthDivisor = domain.DefaultScoringWeights().TextLengthDivisor
	}
	return &Scorer{weights: weights}
}

// Weights returns the scoring weights in use.
func (s *Scorer) Weights() domain.ScoringWeights {
	return s.weights
}

// Metric computes the structural signals of the extraction at index.
// An errored extraction contributes no text, tables or metadata.
func (s *Scorer) Metric(index int, raw *domain.RawExtraction) domain.Metric {
	m := domain.Metric{
		EngineID:       EngineName(index, raw),
		HasErrors:      !raw.IsValid(),
		ProcessingTime: raw.ProcessingTime,
	}
	if m.HasErrors {
		return m
	}

	text := ExtractionText(raw)
	m.TextLength = utf8.RuneCountInString(text)
	m.WordCount = len(strings.Fields(text))
	m.HasTables = raw.HasTables()
	m.HasMetadata = raw.HasMetadata()
	return m
}

// Score applies the weights to a metric.
func (s *Scorer) Score(m domain.Metric) float64 {
	score := float64(m.TextLength) / s.weights.TextLengthDivisor
	if m.HasTables {
		score += s.weights.TableBonus
	}
	if m.HasMetadata {
		score += s.weights.MetadataBonus
	}
	if m.HasErrors {
		score -= s.weights.ErrorPenalty
	}
	return score
}

// ScoreExtraction computes the metric and score of one extraction.
func (s *Scorer) ScoreExtraction(index int, raw *domain.RawExtraction) domain.ScoredResult {
	m := s.Metric(index, raw)
	return domain.ScoredResult{
		EngineID: m.EngineID,
		Score:    s.Score(m),
		Metrics:  m,
	}
}
