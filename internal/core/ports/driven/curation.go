package driven

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// CurationStage is one step of the curation pipeline (e.g., clean, quality, language).
// Stages are chained: each receives the working text produced by the previous stage.
type CurationStage interface {
	// Name returns the stage name for logging and configuration.
	Name() string

	// Process records the stage's findings on record and returns the working
	// text for the next stage. Stages that only observe return text unchanged.
	// An error is recorded as a warning; later stages still run.
	Process(ctx context.Context, text string, record *domain.CurationRecord) (string, error)
}

// CurationPipeline chains multiple CurationStages.
type CurationPipeline interface {
	// Curate runs text through all stages in order and returns the record.
	Curate(ctx context.Context, text string) *domain.CurationRecord
}
