// Package language performs best-effort language identification.
package language

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// MinTextLength is the shortest text, in code points, handed to the detector.
const MinTextLength = 10

// MaxCandidates is the number of candidate languages reported.
const MaxCandidates = 3

// Tagger wraps an optional LanguageDetector. Detection never fails: every
// problem is reported inside the returned LanguageReport.
type Tagger struct {
	detector driven.LanguageDetector
}

// New creates a tagger. A nil detector makes the tagger unavailable.
func New(detector driven.LanguageDetector) *Tagger {
	return &Tagger{detector: detector}
}

// Available reports whether a usable detector is present.
func (t *Tagger) Available() bool {
	return t.detector != nil && t.detector.Available()
}

// Detect identifies the language of text.
// Text shorter than MinTextLength never reaches the detector.
func (t *Tagger) Detect(text string) (report domain.LanguageReport) {
	available := t.Available()

	if utf8.RuneCountInString(text) < MinTextLength {
		return domain.LanguageReport{
			Language:  domain.LanguageUnknown,
			Available: available,
			Reason:    domain.ReasonTextTooShort,
		}
	}

	if !available {
		return domain.LanguageReport{
			Language:  domain.LanguageUnknown,
			Available: false,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			report = failed(fmt.Errorf("detector panic: %v", r))
		}
	}()

	candidates, err := t.detector.Detect(text)
	if err != nil {
		return failed(err)
	}
	if len(candidates) == 0 || candidates[0].Probability <= 0 {
		return domain.LanguageReport{
			Language:  domain.LanguageUnknown,
			Available: true,
			Reason:    domain.ReasonNoLanguageFound,
		}
	}

	top := candidates[:min(len(candidates), MaxCandidates)]
	reported := make([]domain.LanguageCandidate, len(top))
	for i, c := range top {
		reported[i] = domain.LanguageCandidate{
			Language:    c.Language,
			Probability: round3(c.Probability),
		}
	}

	return domain.LanguageReport{
		Language:   reported[0].Language,
		Confidence: reported[0].Probability,
		Candidates: reported,
		Available:  true,
	}
}

func failed(err error) domain.LanguageReport {
	return domain.LanguageReport{
		Language:  domain.LanguageUnknown,
		Available: true,
		Error:     err.Error(),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
