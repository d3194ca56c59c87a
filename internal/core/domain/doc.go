// Package domain defines the core business entities for docfuse.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawExtraction: One engine's output for one document
//   - Metric, ScoredResult, ComparisonReport: Ranking of engine outputs
//   - MergedResult: The non-semantic union of several engine outputs
//   - CurationRecord: Cleaned text with quality and language annotations
//   - DedupResult: Outcome of removing duplicate text units
//   - ProcessReport: Everything produced for one document in one run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
