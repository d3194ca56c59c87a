package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

func newTestServer(t *testing.T, fusion *mockFusionService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Fusion: fusion})
	require.NoError(t, err)
	return server
}

func TestServer_handleCompare(t *testing.T) {
	ctx := context.Background()
	extractions := []domain.RawExtraction{
		{EngineID: "pdftext", Text: "hello world"},
		{EngineID: "ocr", Error: "timeout"},
	}

	t.Run("returns comparison report", func(t *testing.T) {
		fusion := &mockFusionService{
			comparison: &domain.ComparisonReport{
				TotalEngines:  2,
				Engines:       []string{"pdftext", "ocr"},
				BestProcessor: &domain.ScoredResult{EngineID: "pdftext", Score: 0.11},
			},
		}
		server := newTestServer(t, fusion)

		_, output, err := server.handleCompare(ctx, nil, ExtractionsInput{Extractions: extractions})

		require.NoError(t, err)
		assert.Equal(t, extractions, fusion.gotExtractions)
		assert.Equal(t, 2, output.TotalEngines)
		require.NotNil(t, output.BestProcessor)
		assert.Equal(t, "pdftext", output.BestProcessor.EngineID)
	})

	t.Run("empty input is reported in the result", func(t *testing.T) {
		fusion := &mockFusionService{
			comparison: &domain.ComparisonReport{Error: "no results"},
		}
		server := newTestServer(t, fusion)

		_, output, err := server.handleCompare(ctx, nil, ExtractionsInput{})

		require.NoError(t, err)
		assert.Equal(t, "no results", output.Error)
	})
}

func TestServer_handleMerge(t *testing.T) {
	ctx := context.Background()

	t.Run("returns merged result", func(t *testing.T) {
		fusion := &mockFusionService{
			merged: &domain.MergedResult{SourceCount: 1, CombinedText: "hello"},
		}
		server := newTestServer(t, fusion)

		_, output, err := server.handleMerge(ctx, nil, ExtractionsInput{
			Extractions: []domain.RawExtraction{{EngineID: "a", Text: "hello"}},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, output.SourceCount)
		assert.Equal(t, "hello", output.CombinedText)
	})

	t.Run("propagates merge errors", func(t *testing.T) {
		fusion := &mockFusionService{err: domain.ErrNoValidResults}
		server := newTestServer(t, fusion)

		_, _, err := server.handleMerge(ctx, nil, ExtractionsInput{
			Extractions: []domain.RawExtraction{{EngineID: "a", Error: "boom"}},
		})

		assert.ErrorIs(t, err, domain.ErrNoValidResults)
	})
}

func TestServer_handleCurate(t *testing.T) {
	ctx := context.Background()

	t.Run("enables every stage by default", func(t *testing.T) {
		fusion := &mockFusionService{
			record: &domain.CurationRecord{OriginalText: " hi ", CuratedText: "hi"},
		}
		server := newTestServer(t, fusion)

		_, output, err := server.handleCurate(ctx, nil, CurateInput{Text: " hi "})

		require.NoError(t, err)
		assert.Equal(t, " hi ", fusion.gotText)
		assert.Equal(t, domain.DefaultCurationOptions(), fusion.gotOpts)
		assert.Equal(t, "hi", output.CuratedText)
	})

	t.Run("skip flags disable stages", func(t *testing.T) {
		fusion := &mockFusionService{record: &domain.CurationRecord{}}
		server := newTestServer(t, fusion)

		_, _, err := server.handleCurate(ctx, nil, CurateInput{
			Text:         "x",
			SkipCleaning: true,
			SkipLanguage: true,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.CurationOptions{QualityCheck: true}, fusion.gotOpts)
	})
}

func TestServer_handleDedupe(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to exact", func(t *testing.T) {
		fusion := &mockFusionService{dedup: &domain.DedupResult{Method: domain.DedupExact}}
		server := newTestServer(t, fusion)

		_, output, err := server.handleDedupe(ctx, nil, DedupeInput{Texts: []string{"a", "a"}})

		require.NoError(t, err)
		assert.Equal(t, domain.DedupExact, fusion.gotMethod)
		assert.Equal(t, domain.DedupExact, output.Method)
	})

	t.Run("passes fuzzy through", func(t *testing.T) {
		fusion := &mockFusionService{dedup: &domain.DedupResult{Method: domain.DedupFuzzy}}
		server := newTestServer(t, fusion)

		_, _, err := server.handleDedupe(ctx, nil, DedupeInput{Texts: []string{"a"}, Method: "fuzzy"})

		require.NoError(t, err)
		assert.Equal(t, domain.DedupFuzzy, fusion.gotMethod)
	})

	t.Run("passes unknown method through", func(t *testing.T) {
		fusion := &mockFusionService{dedup: &domain.DedupResult{Method: domain.DedupExact}}
		server := newTestServer(t, fusion)

		_, output, err := server.handleDedupe(ctx, nil, DedupeInput{Texts: []string{"a"}, Method: "semantic"})

		require.NoError(t, err)
		assert.Equal(t, domain.DedupMethod("semantic"), fusion.gotMethod)
		assert.Equal(t, []string{"a"}, fusion.gotTexts)
		assert.Equal(t, domain.DedupExact, output.Method)
	})
}
