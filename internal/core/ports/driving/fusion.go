package driving

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// FusionService runs the multi-source result fusion pipeline.
type FusionService interface {
	// Process runs every configured engine on the document at path and
	// analyses the results. Engine failures are recorded, never returned.
	Process(ctx context.Context, path string) (*domain.ProcessReport, error)

	// Analyse runs comparison, merge, curation, dedup and enrichment over
	// extractions that were produced elsewhere.
	Analyse(ctx context.Context, document string, extractions []domain.RawExtraction) (*domain.ProcessReport, error)

	// Compare scores and ranks extractions. Empty input yields a report
	// whose Error field is set.
	Compare(ctx context.Context, extractions []domain.RawExtraction) *domain.ComparisonReport

	// Merge combines extractions into an ensemble view.
	// Returns domain.ErrEmptyInput or domain.ErrNoValidResults.
	Merge(ctx context.Context, extractions []domain.RawExtraction) (*domain.MergedResult, error)

	// Curate cleans, assesses and language-tags one text.
	Curate(ctx context.Context, text string, opts domain.CurationOptions) *domain.CurationRecord

	// Dedupe removes duplicate texts using the given method.
	Dedupe(ctx context.Context, texts []string, method domain.DedupMethod) *domain.DedupResult

	// Engines returns the names of the configured engines.
	Engines() []string
}
