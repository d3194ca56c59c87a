// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// FusionService drives the fusion pipeline for one document: engines run in
// parallel, then comparison, ensemble merge, curation, dedup and optional
// enrichment, with the finished report handed to the ReportStore.
package services
