package driven

import "github.com/custodia-labs/docfuse/internal/core/domain"

// LanguageDetector identifies the natural language of a text.
// This is an optional capability: a nil detector or one whose Available
// reports false yields an "unavailable" language report.
type LanguageDetector interface {
	// Available reports whether the detector was initialised and can be used.
	Available() bool

	// Detect returns candidate languages ordered by descending confidence.
	// Codes are lowercase ISO 639-1. An empty result means no language was found.
	Detect(text string) ([]domain.LanguageCandidate, error)
}
