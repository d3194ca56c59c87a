// Package quality scores text against independent heuristic filters.
package quality

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Assessor evaluates text quality. It is stateless and safe for concurrent use.
type Assessor struct {
	thresholds domain.QualityThresholds
}

// New creates an assessor with the given thresholds.
func New(thresholds domain.QualityThresholds) *Assessor {
	return &Assessor{thresholds: thresholds}
}

// NewDefault creates an assessor with the standard thresholds.
func NewDefault() *Assessor {
	return New(domain.DefaultQualityThresholds())
}

// Thresholds returns the configured thresholds.
func (a *Assessor) Thresholds() domain.QualityThresholds {
	return a.thresholds
}

// Assess runs every filter over text. Filters never short-circuit.
// Empty text scores zero and evaluates no filters.
func (a *Assessor) Assess(text string) domain.QualityReport {
	report := domain.QualityReport{
		PassedFilters: []string{},
		FailedFilters: []string{},
	}
	if text == "" {
		return report
	}

	th := a.thresholds
	length := utf8.RuneCountInString(text)
	words := strings.Fields(text)

	report.Metrics.Length = length
	report.Metrics.WordCount = len(words)
	report.Metrics.CharCount = length - strings.Count(text, " ")

	check := func(ok bool, pass, fail string) {
		if ok {
			report.PassedFilters = append(report.PassedFilters, pass)
		} else {
			report.FailedFilters = append(report.FailedFilters, fail)
		}
	}

	check(length >= th.MinLength, domain.FilterMinimumLength, domain.FilterMinimumLength)
	check(len(words) >= th.MinWords, domain.FilterMinimumWords, domain.FilterMinimumWords)

	diversity := charDiversity(text, length)
	report.Metrics.CharDiversity = round(diversity, 3)
	check(diversity > th.MinCharDiversity, domain.FilterCharDiversity, domain.FilterCharDiversity)

	if len(words) > 0 {
		repetition := repetitionRatio(words)
		rounded := round(repetition, 3)
		report.Metrics.RepetitionRatio = &rounded
		check(repetition < th.MaxRepetitionRatio, domain.FilterLowRepetition, domain.FilterHighRepetition)
	}

	special := specialCharRatio(text, length)
	report.Metrics.SpecialCharRatio = round(special, 3)
	check(special < th.MaxSpecialCharRatio,
		domain.FilterReasonableSpecialChars, domain.FilterExcessiveSpecialChars)

	passed := len(report.PassedFilters)
	score := float64(passed) / float64(passed+len(report.FailedFilters)) * 100
	if len(words) > th.WordCountBonusAbove {
		score += th.BonusPoints
	}
	if diversity > th.DiversityBonusAbove {
		score += th.BonusPoints
	}
	score = math.Min(score, 100)

	report.Score = round(score, 2)
	report.IsHighQuality = report.Score >= th.HighQualityScore
	return report
}

// charDiversity is the share of distinct lowercased code points.
func charDiversity(text string, length int) float64 {
	unique := make(map[rune]struct{})
	for _, r := range strings.ToLower(text) {
		unique[r] = struct{}{}
	}
	return float64(len(unique)) / float64(max(length, 1))
}

// repetitionRatio is the most frequent word's share of all words.
func repetitionRatio(words []string) float64 {
	freq := make(map[string]int, len(words))
	top := 0
	for _, w := range words {
		freq[w]++
		top = max(top, freq[w])
	}
	return float64(top) / float64(len(words))
}

// specialCharRatio is the share of code points that are neither word
// characters nor whitespace.
func specialCharRatio(text string, length int) float64 {
	special := 0
	for _, r := range text {
		if !isWordRune(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return float64(special) / float64(max(length, 1))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
