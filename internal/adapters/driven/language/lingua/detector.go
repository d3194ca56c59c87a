// Package lingua provides a language detector adapter backed by lingua-go.
package lingua

import (
	"fmt"
	"strings"
	"sync"

	linguago "github.com/pemistahl/lingua-go"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.LanguageDetector = (*Detector)(nil)

// Detector identifies languages with lingua-go's n-gram models.
// The underlying detector is built on first use and then shared; it is
// safe for concurrent use.
type Detector struct {
	languages   []linguago.Language
	lowAccuracy bool

	once     sync.Once
	detector linguago.LanguageDetector
}

// New creates a detector from settings. An empty language list means every
// supported language. Unknown codes are an error.
func New(cfg domain.LanguageSettings) (*Detector, error) {
	d := &Detector{lowAccuracy: cfg.LowAccuracy}
	if len(cfg.Languages) == 0 {
		return d, nil
	}

	langs, err := parseLanguages(cfg.Languages)
	if err != nil {
		return nil, err
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("%w: at least two languages are required, got %d", domain.ErrInvalidInput, len(langs))
	}
	d.languages = langs
	return d, nil
}

// parseLanguages maps ISO 639-1 codes to lingua languages, dropping repeats.
func parseLanguages(codes []string) ([]linguago.Language, error) {
	byCode := make(map[string]linguago.Language)
	for _, l := range linguago.AllLanguages() {
		byCode[strings.ToLower(l.IsoCode639_1().String())] = l
	}

	seen := make(map[linguago.Language]bool, len(codes))
	langs := make([]linguago.Language, 0, len(codes))
	for _, code := range codes {
		l, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown language code %q", domain.ErrInvalidInput, code)
		}
		if !seen[l] {
			seen[l] = true
			langs = append(langs, l)
		}
	}
	return langs, nil
}

func (d *Detector) build() {
	builder := linguago.NewLanguageDetectorBuilder()
	var configured linguago.LanguageDetectorBuilder
	if len(d.languages) > 0 {
		configured = builder.FromLanguages(d.languages...)
	} else {
		configured = builder.FromAllLanguages()
	}
	if d.lowAccuracy {
		configured = configured.WithLowAccuracyMode()
	}
	d.detector = configured.Build()
}

// Available reports whether detection can run. Always true once constructed.
func (d *Detector) Available() bool {
	return true
}

// Detect returns candidate languages ordered by descending confidence,
// with lowercase ISO 639-1 codes.
func (d *Detector) Detect(text string) ([]domain.LanguageCandidate, error) {
	d.once.Do(d.build)

	values := d.detector.ComputeLanguageConfidenceValues(text)
	candidates := make([]domain.LanguageCandidate, 0, len(values))
	for _, v := range values {
		if v.Value() <= 0 {
			continue
		}
		candidates = append(candidates, domain.LanguageCandidate{
			Language:    strings.ToLower(v.Language().IsoCode639_1().String()),
			Probability: v.Value(),
		})
	}
	return candidates, nil
}
