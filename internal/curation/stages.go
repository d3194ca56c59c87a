package curation

import (
	"context"
	"errors"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/curation/cleaner"
	"github.com/custodia-labs/docfuse/internal/curation/language"
	"github.com/custodia-labs/docfuse/internal/curation/quality"
)

// cleanStage replaces the working text with its cleaned form.
type cleanStage struct {
	cleaner *cleaner.Cleaner
}

func (s *cleanStage) Name() string { return StageClean }

func (s *cleanStage) Process(_ context.Context, text string, record *domain.CurationRecord) (string, error) {
	result := s.cleaner.Clean(text)
	record.Cleaning = &result.Stats
	return result.CleanedText, nil
}

// qualityStage records the quality assessment of the working text.
type qualityStage struct {
	assessor *quality.Assessor
}

func (s *qualityStage) Name() string { return StageQuality }

func (s *qualityStage) Process(_ context.Context, text string, record *domain.CurationRecord) (string, error) {
	report := s.assessor.Assess(text)
	record.Quality = &report
	return text, nil
}

// languageStage records the detected language of the working text.
// A detector failure is kept on the report and surfaced as a warning.
type languageStage struct {
	tagger *language.Tagger
}

func (s *languageStage) Name() string { return StageLanguage }

func (s *languageStage) Process(_ context.Context, text string, record *domain.CurationRecord) (string, error) {
	report := s.tagger.Detect(text)
	record.Language = &report
	if report.Error != "" {
		return text, errors.New(report.Error)
	}
	return text, nil
}
