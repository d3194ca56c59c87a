package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document type or engine kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrFileTooLarge indicates the document exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// Fusion Errors.

	// ErrEmptyInput indicates a fusion operation received no results at all.
	ErrEmptyInput = errors.New("no results")

	// ErrNoValidResults indicates every result carried an engine error.
	ErrNoValidResults = errors.New("no valid results")

	// ErrNoEngines indicates no extraction engine is configured.
	ErrNoEngines = errors.New("no extraction engines configured")

	// Capability Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Enrichment is skipped without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Fuzzy deduplication falls back to exact hashing without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLanguageUnavailable indicates no language detector is available.
	ErrLanguageUnavailable = errors.New("language detection unavailable")
)
