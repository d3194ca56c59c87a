// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - CurationStage: One step of the curation pipeline
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Engine: Document extraction. Without engines only pre-extracted input can be analysed.
//   - ReportStore: Report persistence. Without it reports are returned but not kept.
//   - LanguageDetector: Language identification. Without it language is reported as unavailable.
//   - EmbeddingService: Generates vector embeddings. Without it fuzzy dedup falls back to exact.
//   - LLMService: Language model completion. Without it enrichment is skipped.
//   - PromptStore: User-editable prompts. Without it the configured prompt is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
