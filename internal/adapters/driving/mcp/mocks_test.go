package mcp

import (
	"context"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// mockFusionService is a mock implementation of driving.FusionService.
type mockFusionService struct {
	comparison *domain.ComparisonReport
	merged     *domain.MergedResult
	record     *domain.CurationRecord
	dedup      *domain.DedupResult
	err        error

	gotExtractions []domain.RawExtraction
	gotText        string
	gotOpts        domain.CurationOptions
	gotTexts       []string
	gotMethod      domain.DedupMethod
}

func (m *mockFusionService) Process(_ context.Context, _ string) (*domain.ProcessReport, error) {
	return nil, m.err
}

func (m *mockFusionService) Analyse(
	_ context.Context,
	_ string,
	_ []domain.RawExtraction,
) (*domain.ProcessReport, error) {
	return nil, m.err
}

func (m *mockFusionService) Compare(_ context.Context, extractions []domain.RawExtraction) *domain.ComparisonReport {
	m.gotExtractions = extractions
	return m.comparison
}

func (m *mockFusionService) Merge(_ context.Context, extractions []domain.RawExtraction) (*domain.MergedResult, error) {
	m.gotExtractions = extractions
	return m.merged, m.err
}

func (m *mockFusionService) Curate(_ context.Context, text string, opts domain.CurationOptions) *domain.CurationRecord {
	m.gotText = text
	m.gotOpts = opts
	return m.record
}

func (m *mockFusionService) Dedupe(_ context.Context, texts []string, method domain.DedupMethod) *domain.DedupResult {
	m.gotTexts = texts
	m.gotMethod = method
	return m.dedup
}

func (m *mockFusionService) Engines() []string { return nil }

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	summaries []domain.ReportSummary
	report    *domain.ProcessReport
	err       error
	gotLimit  int
	gotID     string
}

func (m *mockReportService) List(_ context.Context, limit int) ([]domain.ReportSummary, error) {
	m.gotLimit = limit
	return m.summaries, m.err
}

func (m *mockReportService) Get(_ context.Context, id string) (*domain.ProcessReport, error) {
	m.gotID = id
	return m.report, m.err
}

func (m *mockReportService) Delete(_ context.Context, _ string) error {
	return m.err
}
