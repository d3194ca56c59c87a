package driven

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// ReportStore persists process reports.
// It is the persistence collaborator the fusion service hands finished reports to.
type ReportStore interface {
	// Save stores a report, replacing any report with the same ID.
	Save(ctx context.Context, report *domain.ProcessReport) error

	// Get retrieves a report by ID.
	// Returns domain.ErrNotFound if the report does not exist.
	Get(ctx context.Context, id string) (*domain.ProcessReport, error)

	// List returns report summaries, newest first.
	// A limit of zero or less returns every report.
	List(ctx context.Context, limit int) ([]domain.ReportSummary, error)

	// Delete removes a report by ID.
	// Returns domain.ErrNotFound if the report does not exist.
	Delete(ctx context.Context, id string) error
}
