package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyEnableCleaning      = "fusion.enable_cleaning"
	keyEnableQualityCheck  = "fusion.enable_quality_check"
	keyEnableLanguage      = "fusion.enable_language_detection"
	keyEnableEnsemble      = "fusion.enable_ensemble"
	keyEnableComparison    = "fusion.enable_comparison"
	keyEnableDedup         = "fusion.enable_dedup"
	keyEnableEnrichment    = "fusion.enable_enrichment"
	keyPreserveParagraphs  = "fusion.preserve_paragraphs"
	keyDedupMethod         = "fusion.dedup_method"
	keyFuzzyThreshold      = "fusion.fuzzy_threshold"
	keyTextLengthDivisor   = "scoring.text_length_divisor"
	keyTableBonus          = "scoring.table_bonus"
	keyMetadataBonus       = "scoring.metadata_bonus"
	keyErrorPenalty        = "scoring.error_penalty"
	keyMinLength           = "quality.min_length"
	keyMinWords            = "quality.min_words"
	keyMinCharDiversity    = "quality.min_char_diversity"
	keyMaxRepetitionRatio  = "quality.max_repetition_ratio"
	keyMaxSpecialCharRatio = "quality.max_special_char_ratio"
	keyHighQualityScore    = "quality.high_quality_score"
	keyLanguageEnabled     = "language.enabled"
	keyLanguages           = "language.languages"
	keyLanguageLowAccuracy = "language.low_accuracy"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMPrompt           = "llm.prompt"
	keyStorageBackend      = "storage.backend"
	keyStoragePath         = "storage.path"
	keyStorageDSN          = "storage.dsn"
	keyEnginesEnabled      = "engines.enabled"
)

// Per-engine keys live under engines.<name>.
const (
	engineKeyPrefix  = "engines."
	engineCommand    = ".command"
	engineArgs       = ".args"
	engineTimeoutSec = ".timeout_seconds"
	engineModel      = ".model"
	engineBaseURL    = ".base_url"
)

// DefaultOllamaURL is used for local providers without a configured base URL.
const DefaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Fusion: domain.FusionSettings{
			EnableCleaning:          s.getBool(keyEnableCleaning, defaults.Fusion.EnableCleaning),
			EnableQualityCheck:      s.getBool(keyEnableQualityCheck, defaults.Fusion.EnableQualityCheck),
			EnableLanguageDetection: s.getBool(keyEnableLanguage, defaults.Fusion.EnableLanguageDetection),
			EnableEnsemble:          s.getBool(keyEnableEnsemble, defaults.Fusion.EnableEnsemble),
			EnableComparison:        s.getBool(keyEnableComparison, defaults.Fusion.EnableComparison),
			EnableDedup:             s.getBool(keyEnableDedup, defaults.Fusion.EnableDedup),
			EnableEnrichment:        s.getBool(keyEnableEnrichment, defaults.Fusion.EnableEnrichment),
			PreserveParagraphs:      s.getBool(keyPreserveParagraphs, defaults.Fusion.PreserveParagraphs),
			DedupMethod:             s.getDedupMethod(defaults.Fusion.DedupMethod),
			FuzzyThreshold:          s.getFloat(keyFuzzyThreshold, defaults.Fusion.FuzzyThreshold),
		},
		Scoring: domain.ScoringWeights{
			TextLengthDivisor: s.getFloat(keyTextLengthDivisor, defaults.Scoring.TextLengthDivisor),
			TableBonus:        s.getFloat(keyTableBonus, defaults.Scoring.TableBonus),
			MetadataBonus:     s.getFloat(keyMetadataBonus, defaults.Scoring.MetadataBonus),
			ErrorPenalty:      s.getFloat(keyErrorPenalty, defaults.Scoring.ErrorPenalty),
		},
		Quality: defaults.Quality,
		Language: domain.LanguageSettings{
			Enabled:     s.getBool(keyLanguageEnabled, defaults.Language.Enabled),
			Languages:   s.configStore.GetStringSlice(keyLanguages),
			LowAccuracy: s.getBool(keyLanguageLowAccuracy, defaults.Language.LowAccuracy),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			Prompt:   s.getString(keyLLMPrompt, defaults.LLM.Prompt),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Path:    s.configStore.GetString(keyStoragePath),
			DSN:     s.configStore.GetString(keyStorageDSN),
		},
		Engines: s.getEngines(),
	}

	q := &settings.Quality
	q.MinLength = s.getInt(keyMinLength, q.MinLength)
	q.MinWords = s.getInt(keyMinWords, q.MinWords)
	q.MinCharDiversity = s.getFloat(keyMinCharDiversity, q.MinCharDiversity)
	q.MaxRepetitionRatio = s.getFloat(keyMaxRepetitionRatio, q.MaxRepetitionRatio)
	q.MaxSpecialCharRatio = s.getFloat(keyMaxSpecialCharRatio, q.MaxSpecialCharRatio)
	q.HighQualityScore = s.getFloat(keyHighQualityScore, q.HighQualityScore)

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEnableCleaning, settings.Fusion.EnableCleaning},
		{keyEnableQualityCheck, settings.Fusion.EnableQualityCheck},
		{keyEnableLanguage, settings.Fusion.EnableLanguageDetection},
		{keyEnableEnsemble, settings.Fusion.EnableEnsemble},
		{keyEnableComparison, settings.Fusion.EnableComparison},
		{keyEnableDedup, settings.Fusion.EnableDedup},
		{keyEnableEnrichment, settings.Fusion.EnableEnrichment},
		{keyPreserveParagraphs, settings.Fusion.PreserveParagraphs},
		{keyDedupMethod, settings.Fusion.DedupMethod.String()},
		{keyFuzzyThreshold, settings.Fusion.FuzzyThreshold},
		{keyTextLengthDivisor, settings.Scoring.TextLengthDivisor},
		{keyTableBonus, settings.Scoring.TableBonus},
		{keyMetadataBonus, settings.Scoring.MetadataBonus},
		{keyErrorPenalty, settings.Scoring.ErrorPenalty},
		{keyMinLength, settings.Quality.MinLength},
		{keyMinWords, settings.Quality.MinWords},
		{keyMinCharDiversity, settings.Quality.MinCharDiversity},
		{keyMaxRepetitionRatio, settings.Quality.MaxRepetitionRatio},
		{keyMaxSpecialCharRatio, settings.Quality.MaxSpecialCharRatio},
		{keyHighQualityScore, settings.Quality.HighQualityScore},
		{keyLanguageEnabled, settings.Language.Enabled},
		{keyLanguages, settings.Language.Languages},
		{keyLanguageLowAccuracy, settings.Language.LowAccuracy},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMPrompt, settings.LLM.Prompt},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyStoragePath, settings.Storage.Path},
		{keyStorageDSN, settings.Storage.DSN},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	names := make([]string, 0, len(settings.Engines))
	for _, e := range settings.Engines {
		names = append(names, e.Name)
		prefix := engineKeyPrefix + e.Name
		if err := s.configStore.Set(prefix+engineCommand, e.Command); err != nil {
			return fmt.Errorf("save engine %s command: %w", e.Name, err)
		}
		if err := s.configStore.Set(prefix+engineArgs, e.Args); err != nil {
			return fmt.Errorf("save engine %s args: %w", e.Name, err)
		}
		if err := s.configStore.Set(prefix+engineTimeoutSec, int(e.Timeout/time.Second)); err != nil {
			return fmt.Errorf("save engine %s timeout: %w", e.Name, err)
		}
		if e.Model != "" {
			if err := s.configStore.Set(prefix+engineModel, e.Model); err != nil {
				return fmt.Errorf("save engine %s model: %w", e.Name, err)
			}
		}
		if e.BaseURL != "" {
			if err := s.configStore.Set(prefix+engineBaseURL, e.BaseURL); err != nil {
				return fmt.Errorf("save engine %s base url: %w", e.Name, err)
			}
		}
	}
	if err := s.configStore.Set(keyEnginesEnabled, names); err != nil {
		return fmt.Errorf("save engines: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, baseURL string) error {
	if provider != domain.AIProviderNone && !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.BaseURL = baseURL

	if provider == domain.AIProviderNone {
		settings.Embedding.Model = ""
		settings.Embedding.BaseURL = ""
		return s.Save(settings)
	}

	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	if provider.IsLocal() && baseURL == "" {
		settings.Embedding.BaseURL = DefaultOllamaURL
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL string) error {
	if provider != domain.AIProviderNone && !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.BaseURL = baseURL

	if provider == domain.AIProviderNone {
		settings.LLM.Model = ""
		settings.LLM.BaseURL = ""
		return s.Save(settings)
	}

	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	if provider.IsLocal() && baseURL == "" {
		settings.LLM.BaseURL = DefaultOllamaURL
	}

	return s.Save(settings)
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if settings.Fusion.FuzzyThreshold <= 0 || settings.Fusion.FuzzyThreshold > 1 {
		errs = append(errs, fmt.Errorf("fuzzy threshold must be in (0, 1], got %g", settings.Fusion.FuzzyThreshold))
	}
	if settings.Scoring.TextLengthDivisor <= 0 {
		errs = append(errs, fmt.Errorf("text length divisor must be positive, got %g", settings.Scoring.TextLengthDivisor))
	}
	if settings.Fusion.EnableEnrichment && !settings.LLM.IsConfigured() {
		errs = append(errs, errors.New("enrichment requires an LLM provider to be configured"))
	}
	if settings.Fusion.EnableDedup && settings.Fusion.DedupMethod == domain.DedupFuzzy &&
		!settings.Embedding.IsConfigured() {
		errs = append(errs, errors.New("fuzzy deduplication requires an embedding provider to be configured"))
	}
	if settings.Storage.Backend == domain.StoragePostgres && settings.Storage.DSN == "" {
		errs = append(errs, errors.New("postgres storage requires storage.dsn"))
	}
	for _, e := range settings.Engines {
		if e.Command == "" && !e.IsBuiltin() {
			errs = append(errs, fmt.Errorf("engine %q has no command", e.Name))
		}
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDedupMethod(defaultVal domain.DedupMethod) domain.DedupMethod {
	method := domain.DedupMethod(s.configStore.GetString(keyDedupMethod))
	if !method.IsValid() {
		return defaultVal
	}
	return method
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// getEngines reads the engines named in engines.enabled, in order.
func (s *SettingsService) getEngines() []domain.EngineSettings {
	names := s.configStore.GetStringSlice(keyEnginesEnabled)
	engines := make([]domain.EngineSettings, 0, len(names))
	for _, name := range names {
		prefix := engineKeyPrefix + name
		engines = append(engines, domain.EngineSettings{
			Name:    name,
			Command: s.configStore.GetString(prefix + engineCommand),
			Args:    s.configStore.GetStringSlice(prefix + engineArgs),
			Timeout: time.Duration(s.configStore.GetInt(prefix+engineTimeoutSec)) * time.Second,
			Model:   s.configStore.GetString(prefix + engineModel),
			BaseURL: s.configStore.GetString(prefix + engineBaseURL),
		})
	}
	return engines
}
