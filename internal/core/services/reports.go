package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// errNoReportStore is returned when reports are requested without storage.
var errNoReportStore = errors.New("report store not configured")

// ReportService provides access to stored process reports.
type ReportService struct {
	store driven.ReportStore
}

// NewReportService creates a new report service.
func NewReportService(store driven.ReportStore) *ReportService {
	return &ReportService{store: store}
}

// List returns report summaries, newest first.
func (s *ReportService) List(ctx context.Context, limit int) ([]domain.ReportSummary, error) {
	if s.store == nil {
		return nil, errNoReportStore
	}
	summaries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return summaries, nil
}

// Get retrieves a report by ID.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.ProcessReport, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	if s.store == nil {
		return nil, errNoReportStore
	}
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return report, nil
}

// Delete removes a report by ID.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: report id is required", domain.ErrInvalidInput)
	}
	if s.store == nil {
		return errNoReportStore
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return nil
}
