package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// ExtractionsInput is the input schema for the compare and merge tools.
type ExtractionsInput struct {
	Extractions []domain.RawExtraction `json:"extractions" jsonschema:"raw extraction results, one per engine"`
}

// CurateInput is the input schema for the curate tool.
type CurateInput struct {
	Text         string `json:"text" jsonschema:"the text to curate"`
	SkipCleaning bool   `json:"skip_cleaning,omitempty" jsonschema:"do not normalise or clean the text"`
	SkipQuality  bool   `json:"skip_quality,omitempty" jsonschema:"do not run the quality filters"`
	SkipLanguage bool   `json:"skip_language,omitempty" jsonschema:"do not detect the language"`
}

// DedupeInput is the input schema for the dedupe tool.
type DedupeInput struct {
	Texts  []string `json:"texts" jsonschema:"texts to deduplicate, in order"`
	Method string   `json:"method,omitempty" jsonschema:"exact or fuzzy (default exact); other values use exact"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fusion_compare",
		Description: "Score and rank extraction results from several engines and recommend the best one",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fusion_merge",
		Description: "Merge valid extraction results into one combined text with all tables and pages",
	}, s.handleMerge)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fusion_curate",
		Description: "Clean a text, assess its quality and detect its language",
	}, s.handleCurate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fusion_dedupe",
		Description: "Remove exact or near-duplicate texts, keeping the first occurrence",
	}, s.handleDedupe)
}

func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractionsInput,
) (*mcp.CallToolResult, domain.ComparisonReport, error) {
	report := s.ports.Fusion.Compare(ctx, input.Extractions)
	return nil, *report, nil
}

func (s *Server) handleMerge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractionsInput,
) (*mcp.CallToolResult, domain.MergedResult, error) {
	merged, err := s.ports.Fusion.Merge(ctx, input.Extractions)
	if err != nil {
		return nil, domain.MergedResult{}, err
	}
	return nil, *merged, nil
}

func (s *Server) handleCurate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CurateInput,
) (*mcp.CallToolResult, domain.CurationRecord, error) {
	opts := domain.CurationOptions{
		Cleaning:          !input.SkipCleaning,
		QualityCheck:      !input.SkipQuality,
		LanguageDetection: !input.SkipLanguage,
	}
	record := s.ports.Fusion.Curate(ctx, input.Text, opts)
	return nil, *record, nil
}

func (s *Server) handleDedupe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DedupeInput,
) (*mcp.CallToolResult, domain.DedupResult, error) {
	method := domain.DedupExact
	if input.Method != "" {
		method = domain.DedupMethod(input.Method)
	}
	result := s.ports.Fusion.Dedupe(ctx, input.Texts, method)
	return nil, *result, nil
}
