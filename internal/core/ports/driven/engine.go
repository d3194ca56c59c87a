package driven

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Engine is an opaque document extraction component.
// Given a document path and its declared type it returns one RawExtraction.
// The core never inspects how an engine works internally.
type Engine interface {
	// Name returns the engine identifier used as RawExtraction.EngineID.
	Name() string

	// Extract runs the engine on one document.
	// An error means the engine failed; callers record it on the extraction
	// rather than aborting the run.
	Extract(ctx context.Context, path string, docType domain.DocumentType) (*domain.RawExtraction, error)
}
