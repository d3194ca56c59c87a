package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the capability.
	AIProviderNone AIProvider = ""

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// AllAIProviders returns the selectable providers, disabled first.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderNone, AIProviderOllama}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// FusionSettings holds the capability flags of the fusion pipeline.
type FusionSettings struct {
	EnableCleaning          bool
	EnableQualityCheck      bool
	EnableLanguageDetection bool
	EnableEnsemble          bool
	EnableComparison        bool
	EnableDedup             bool
	EnableEnrichment        bool

	// PreserveParagraphs keeps paragraph breaks during cleaning instead of
	// collapsing every whitespace run to a single space.
	PreserveParagraphs bool

	// DedupMethod selects exact or fuzzy deduplication.
	DedupMethod DedupMethod

	// FuzzyThreshold is the cosine similarity for fuzzy duplicates.
	FuzzyThreshold float64
}

// CurationOptions returns the curation stage toggles for these settings.
func (f FusionSettings) CurationOptions() CurationOptions {
	return CurationOptions{
		Cleaning:          f.EnableCleaning,
		QualityCheck:      f.EnableQualityCheck,
		LanguageDetection: f.EnableLanguageDetection,
	}
}

// LanguageSettings holds language detector configuration.
type LanguageSettings struct {
	// Enabled controls whether a detector is built at all.
	Enabled bool

	// Languages restricts detection to these ISO 639-1 codes. Empty means all.
	Languages []string

	// LowAccuracy trades accuracy on short texts for speed and memory.
	LowAccuracy bool
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid()
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// Prompt is prepended to the curated text for enrichment.
	Prompt string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid()
}

// StorageBackend selects where process reports are persisted.
type StorageBackend string

// Available storage backends.
const (
	StorageMemory   StorageBackend = "memory"
	StorageSQLite   StorageBackend = "sqlite"
	StorageFile     StorageBackend = "file"
	StoragePostgres StorageBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StorageFile, StoragePostgres:
		return true
	default:
		return false
	}
}

// StorageSettings holds report persistence configuration.
type StorageSettings struct {
	Backend StorageBackend

	// Path is the data directory. Empty means the default under ~/.docfuse.
	Path string

	// DSN is the connection string of the postgres backend.
	DSN string
}

// NativeEngine names the built-in engine. An engine entry with this name
// and no command selects it.
const NativeEngine = "native"

// VisionEngine names the Ollama vision engine for image documents. An
// engine entry with this name and no command selects it.
const VisionEngine = "vision"

// EngineSettings configures one extraction engine.
type EngineSettings struct {
	// Name is the engine identifier reported in every RawExtraction.
	Name string

	// Command is the executable to run. Empty only for NativeEngine.
	Command string

	// Args are passed before the document path and type.
	Args []string

	// Timeout bounds one extraction. Zero means the engine default.
	Timeout time.Duration

	// Model and BaseURL configure the vision engine. Empty means its
	// defaults.
	Model   string
	BaseURL string
}

// IsNative reports whether the entry selects the built-in engine.
func (e EngineSettings) IsNative() bool {
	return e.Name == NativeEngine && e.Command == ""
}

// IsVision reports whether the entry selects the Ollama vision engine.
func (e EngineSettings) IsVision() bool {
	return e.Name == VisionEngine && e.Command == ""
}

// IsBuiltin reports whether the entry needs no external command.
func (e EngineSettings) IsBuiltin() bool {
	return e.IsNative() || e.IsVision()
}

// AppSettings holds all application settings.
type AppSettings struct {
	Fusion    FusionSettings
	Scoring   ScoringWeights
	Quality   QualityThresholds
	Language  LanguageSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Storage   StorageSettings
	Engines   []EngineSettings
}

// DefaultEnrichmentPrompt is the default prompt for LLM enrichment.
const DefaultEnrichmentPrompt = "Extract and summarize the key information from this document:"

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Fusion: FusionSettings{
			EnableCleaning:          true,
			EnableQualityCheck:      true,
			EnableLanguageDetection: true,
			EnableEnsemble:          true,
			EnableComparison:        true,
			EnableDedup:             false,
			EnableEnrichment:        false,
			DedupMethod:             DedupExact,
			FuzzyThreshold:          DefaultFuzzyThreshold,
		},
		Scoring: DefaultScoringWeights(),
		Quality: DefaultQualityThresholds(),
		Language: LanguageSettings{
			Enabled: true,
		},
		Embedding: EmbeddingSettings{},
		LLM: LLMSettings{
			Prompt: DefaultEnrichmentPrompt,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
	}
}

// EmbeddingDimensions returns the vector size of known embedding models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
	}
}
