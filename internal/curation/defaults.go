package curation

import (
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
	"github.com/custodia-labs/docfuse/internal/curation/cleaner"
	"github.com/custodia-labs/docfuse/internal/curation/language"
	"github.com/custodia-labs/docfuse/internal/curation/quality"
)

// Built-in stage names, in pipeline order.
const (
	StageClean    = "clean"
	StageQuality  = "quality"
	StageLanguage = "language"
)

// RegisterDefaults registers all built-in stages with the registry.
// The detector may be nil; the language stage then reports unavailable.
func RegisterDefaults(r *Registry, detector driven.LanguageDetector) {
	r.Register(StageClean, buildClean)
	r.Register(StageQuality, buildQuality)
	r.Register(StageLanguage, func(map[string]any) (driven.CurationStage, error) {
		return &languageStage{tagger: language.New(detector)}, nil
	})
}

// buildClean creates the cleaning stage from generic config.
// Supported config keys:
//   - preserve_paragraphs (bool): keep line breaks (default: false)
func buildClean(cfg map[string]any) (driven.CurationStage, error) {
	var opts []cleaner.Option
	if preserve, ok := getBoolFromConfig(cfg, "preserve_paragraphs"); ok {
		opts = append(opts, cleaner.WithPreserveParagraphs(preserve))
	}
	return &cleanStage{cleaner: cleaner.New(opts...)}, nil
}

// buildQuality creates the quality stage from generic config.
// Supported config keys override domain.DefaultQualityThresholds:
//   - min_length (int), min_words (int)
//   - min_char_diversity (float), max_repetition_ratio (float)
//   - max_special_char_ratio (float), high_quality_score (float)
func buildQuality(cfg map[string]any) (driven.CurationStage, error) {
	th := domain.DefaultQualityThresholds()

	if v, ok := getIntFromConfig(cfg, "min_length"); ok && v >= 0 {
		th.MinLength = v
	}
	if v, ok := getIntFromConfig(cfg, "min_words"); ok && v >= 0 {
		th.MinWords = v
	}
	if v, ok := getFloatFromConfig(cfg, "min_char_diversity"); ok {
		th.MinCharDiversity = v
	}
	if v, ok := getFloatFromConfig(cfg, "max_repetition_ratio"); ok {
		th.MaxRepetitionRatio = v
	}
	if v, ok := getFloatFromConfig(cfg, "max_special_char_ratio"); ok {
		th.MaxSpecialCharRatio = v
	}
	if v, ok := getFloatFromConfig(cfg, "high_quality_score"); ok {
		th.HighQualityScore = v
	}

	return &qualityStage{assessor: quality.New(th)}, nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// getFloatFromConfig safely extracts a float64 from generic config map.
func getFloatFromConfig(cfg map[string]any, key string) (float64, bool) {
	switch v := cfg[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// getBoolFromConfig safely extracts a bool from generic config map.
func getBoolFromConfig(cfg map[string]any, key string) (value, ok bool) {
	value, ok = cfg[key].(bool)
	return value, ok
}
