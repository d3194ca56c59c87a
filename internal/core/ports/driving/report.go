package driving

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// ReportService provides access to stored process reports.
type ReportService interface {
	// List returns report summaries, newest first.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*domain.ProcessReport, error)

	// Delete removes a report by ID.
	Delete(ctx context.Context, id string) error
}
