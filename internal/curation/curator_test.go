package curation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

type stubDetector struct {
	available  bool
	candidates []domain.LanguageCandidate
	err        error
}

func (s *stubDetector) Available() bool { return s.available }

func (s *stubDetector) Detect(string) ([]domain.LanguageCandidate, error) {
	return s.candidates, s.err
}

const noisyText = "  The   quarterly report shows revenue growth!!!!! across every region.   " +
	"Contact finance@example.com or visit https://example.com/report for details....  "

func TestCurator_AllStages(t *testing.T) {
	det := &stubDetector{
		available:  true,
		candidates: []domain.LanguageCandidate{{Language: "en", Probability: 0.99}},
	}
	c := NewDefaultCurator(det)

	record := c.Curate(context.Background(), noisyText, domain.DefaultCurationOptions())

	assert.Equal(t, noisyText, record.OriginalText)
	assert.Equal(t, "The quarterly report shows revenue growth! across every region. "+
		"Contact or visit for details...", record.CuratedText)
	require.NotNil(t, record.Cleaning)
	assert.Greater(t, record.Cleaning.RemovedChars, 0)
	require.NotNil(t, record.Quality)
	assert.Equal(t, len([]rune(record.CuratedText)), record.Quality.Metrics.Length)
	require.NotNil(t, record.Language)
	assert.Equal(t, "en", record.Language.Language)
	assert.Empty(t, record.Warnings)
}

func TestCurator_CleaningDisabledUsesOriginal(t *testing.T) {
	c := NewDefaultCurator(nil)

	record := c.Curate(context.Background(), noisyText, domain.CurationOptions{QualityCheck: true})

	assert.Nil(t, record.Cleaning)
	assert.Nil(t, record.Language)
	assert.Equal(t, noisyText, record.CuratedText)
	require.NotNil(t, record.Quality)
	assert.Equal(t, len([]rune(noisyText)), record.Quality.Metrics.Length)
}

func TestCurator_NothingEnabled(t *testing.T) {
	record := NewDefaultCurator(nil).Curate(context.Background(), "text", domain.CurationOptions{})

	assert.Equal(t, "text", record.CuratedText)
	assert.Nil(t, record.Cleaning)
	assert.Nil(t, record.Quality)
	assert.Nil(t, record.Language)
}

func TestCurator_LanguageFailureKeepsEarlierStages(t *testing.T) {
	det := &stubDetector{available: true, err: errors.New("detector crashed")}
	c := NewDefaultCurator(det)

	record := c.Curate(context.Background(), noisyText, domain.DefaultCurationOptions())

	require.NotNil(t, record.Cleaning)
	require.NotNil(t, record.Quality)
	require.NotNil(t, record.Language)
	assert.Equal(t, domain.LanguageUnknown, record.Language.Language)
	assert.Equal(t, "detector crashed", record.Language.Error)
	assert.Equal(t, []string{"language: detector crashed"}, record.Warnings)
}

func TestCurator_LanguageUnavailable(t *testing.T) {
	record := NewDefaultCurator(nil).Curate(context.Background(), noisyText,
		domain.CurationOptions{LanguageDetection: true})

	require.NotNil(t, record.Language)
	assert.False(t, record.Language.Available)
	assert.Empty(t, record.Warnings)
}

func TestNewCurator_UsesStageConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r, nil)

	c, err := NewCurator(r, map[string]map[string]any{
		StageClean: {"preserve_paragraphs": true},
	})
	require.NoError(t, err)

	record := c.Curate(context.Background(), "one\n\n\n\ntwo", domain.CurationOptions{Cleaning: true})
	assert.Equal(t, "one\n\ntwo", record.CuratedText)
}

func TestNewCurator_MissingStage(t *testing.T) {
	_, err := NewCurator(NewRegistry(), nil)

	assert.Error(t, err)
}

func TestTextForCuration(t *testing.T) {
	tests := []struct {
		name     string
		raw      *domain.RawExtraction
		expected string
	}{
		{"nil", nil, ""},
		{"text preferred", &domain.RawExtraction{Text: "full", Pages: []domain.Page{{Text: "p1"}}}, "full"},
		{"pages joined", &domain.RawExtraction{Pages: []domain.Page{{Text: "p1"}, {Text: "p2"}}}, "p1\np2"},
		{"nothing", &domain.RawExtraction{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TextForCuration(tt.raw))
		})
	}
}
