// Package mcp provides an MCP (Model Context Protocol) server adapter for docfuse.
// It exposes comparison, merging, curation and deduplication as tools for
// AI assistants, and stored process reports as resources.
package mcp

import "errors"

// ErrMissingFusionService is returned when the fusion service is not provided.
var ErrMissingFusionService = errors.New("mcp: fusion service is required")
