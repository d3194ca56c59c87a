// Package ai provides factory functions for creating the optional AI
// capabilities: embedding, LLM and language detection.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docfuse/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/language/lingua"
	ollamallm "github.com/custodia-labs/docfuse/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the capabilities created for one process.
// A nil service means the capability is unavailable.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	LanguageDetector driven.LanguageDetector
	PromptStore      driven.PromptStore // User-customisable prompt templates.
	Warnings         []string           // Non-fatal issues that disabled a capability.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates and validates every configured capability once.
// Failures never abort: the capability is left nil and a warning explains why.
func Initialise(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{PromptStore: prompts}

	if settings.Language.Enabled {
		detector, err := CreateLanguageDetector(settings.Language)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.LanguageDetector = detector
		}
	}

	if settings.Embedding.IsConfigured() {
		svc, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.EmbeddingService = svc
		}
	}
	if settings.Fusion.EnableDedup && settings.Fusion.DedupMethod == domain.DedupFuzzy && result.EmbeddingService == nil {
		result.Warnings = append(result.Warnings, "fuzzy deduplication will fall back to exact hashing")
	}

	if settings.LLM.IsConfigured() {
		svc, err := CreateAndValidateLLMService(ctx, &settings.LLM)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.LLMService = svc
		}
	}
	if settings.Fusion.EnableEnrichment && result.LLMService == nil {
		result.Warnings = append(result.Warnings, "enrichment is enabled but no LLM is available; it will be skipped")
	}

	return result
}

// CreateLanguageDetector builds the lingua detector for the settings.
// Returns nil if detection is disabled.
func CreateLanguageDetector(settings domain.LanguageSettings) (driven.LanguageDetector, error) {
	if !settings.Enabled {
		return nil, nil
	}
	detector, err := lingua.New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [language] section of config.toml",
			domain.ErrLanguageUnavailable, err)
	}
	return detector, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section of config.toml",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [embedding] section of config.toml",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [llm] section of config.toml",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [llm] section of config.toml",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service for the configured provider.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		dimensions := domain.EmbeddingDimensions()[settings.Model]
		if dimensions == 0 {
			dimensions = ollamaembed.DefaultDimensions
		}
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for the configured provider.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", settings.Provider)
	}
}
