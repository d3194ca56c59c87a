package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests provider recognition
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"none is not valid", AIProviderNone, false},
		{"unknown is not valid", AIProvider("openai"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_Description tests human readable provider names
func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Disabled", AIProviderNone.Description())
	assert.Equal(t, "Unknown", AIProvider("other").Description())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.Equal(t, "ollama", AIProviderOllama.String())
}

// TestAllAIProviders tests that the disabled option comes first
func TestAllAIProviders(t *testing.T) {
	assert.Equal(t, []AIProvider{AIProviderNone, AIProviderOllama}, AllAIProviders())
}

// TestSettings_IsConfigured tests embedding and LLM configuration checks
func TestSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Model: "llama3.2"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
}

// TestStorageBackend_IsValid tests backend recognition
func TestStorageBackend_IsValid(t *testing.T) {
	for _, b := range []StorageBackend{StorageMemory, StorageSQLite, StorageFile, StoragePostgres} {
		assert.True(t, b.IsValid(), b)
	}
	assert.False(t, StorageBackend("").IsValid())
	assert.False(t, StorageBackend("mongodb").IsValid())
}

// TestEngineSettings_IsNative tests built-in engine selection
func TestEngineSettings_IsNative(t *testing.T) {
	tests := []struct {
		name     string
		engine   EngineSettings
		expected bool
	}{
		{"native without command", EngineSettings{Name: NativeEngine}, true},
		{"native with timeout", EngineSettings{Name: NativeEngine, Timeout: time.Second}, true},
		{"native name with command", EngineSettings{Name: NativeEngine, Command: "native-x"}, false},
		{"other name without command", EngineSettings{Name: "pdftext"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.engine.IsNative())
		})
	}
}

func TestEngineSettings_IsBuiltin(t *testing.T) {
	assert.True(t, EngineSettings{Name: VisionEngine}.IsVision())
	assert.True(t, EngineSettings{Name: VisionEngine, Model: "llava"}.IsBuiltin())
	assert.True(t, EngineSettings{Name: NativeEngine}.IsBuiltin())
	assert.False(t, EngineSettings{Name: VisionEngine, Command: "vision-cli"}.IsVision())
	assert.False(t, EngineSettings{Name: "pdftext"}.IsBuiltin())
}

// TestFusionSettings_CurationOptions tests mapping of stage flags
func TestFusionSettings_CurationOptions(t *testing.T) {
	f := FusionSettings{EnableCleaning: true, EnableLanguageDetection: true}

	assert.Equal(t, CurationOptions{Cleaning: true, LanguageDetection: true}, f.CurationOptions())
}

// TestDefaultAppSettings tests the documented defaults
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.True(t, s.Fusion.EnableCleaning)
	assert.True(t, s.Fusion.EnableQualityCheck)
	assert.True(t, s.Fusion.EnableLanguageDetection)
	assert.True(t, s.Fusion.EnableEnsemble)
	assert.True(t, s.Fusion.EnableComparison)
	assert.False(t, s.Fusion.EnableDedup)
	assert.False(t, s.Fusion.EnableEnrichment)
	assert.False(t, s.Fusion.PreserveParagraphs)
	assert.Equal(t, DedupExact, s.Fusion.DedupMethod)
	assert.InDelta(t, 0.95, s.Fusion.FuzzyThreshold, 1e-9)

	assert.Equal(t, DefaultScoringWeights(), s.Scoring)
	assert.Equal(t, DefaultQualityThresholds(), s.Quality)
	assert.True(t, s.Language.Enabled)
	assert.False(t, s.Embedding.IsConfigured())
	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, DefaultEnrichmentPrompt, s.LLM.Prompt)
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Empty(t, s.Engines)
}

// TestDefaultModels tests default model lookups
func TestDefaultModels(t *testing.T) {
	assert.Equal(t, "nomic-embed-text", DefaultEmbeddingModels()[AIProviderOllama])
	assert.Equal(t, "llama3.2", DefaultLLMModels()[AIProviderOllama])
	assert.Equal(t, 768, EmbeddingDimensions()["nomic-embed-text"])
}
