package mcp

import (
	"github.com/custodia-labs/docfuse/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Fusion runs comparison, merge, curation and dedup.
	Fusion driving.FusionService

	// Reports exposes stored process reports. Optional.
	Reports driving.ReportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Fusion == nil {
		return ErrMissingFusionService
	}
	return nil
}
