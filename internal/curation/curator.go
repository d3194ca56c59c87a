package curation

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Curator runs the clean, quality and language stages, each independently
// toggled per call. Stages are built once from the registry.
type Curator struct {
	stages map[string]driven.CurationStage
}

// NewCurator builds every built-in stage from the registry.
// stageConfig maps a stage name to its settings and may be nil.
func NewCurator(registry *Registry, stageConfig map[string]map[string]any) (*Curator, error) {
	c := &Curator{stages: make(map[string]driven.CurationStage, 3)}
	for _, name := range []string{StageClean, StageQuality, StageLanguage} {
		stage, err := registry.Build(name, stageConfig[name])
		if err != nil {
			return nil, fmt.Errorf("build stage %s: %w", name, err)
		}
		c.stages[name] = stage
	}
	return c, nil
}

// NewDefaultCurator creates a curator with default stage settings.
func NewDefaultCurator(detector driven.LanguageDetector) *Curator {
	r := NewRegistry()
	RegisterDefaults(r, detector)
	c, err := NewCurator(r, nil)
	if err != nil {
		// Built-in builders do not fail on empty config.
		panic(err)
	}
	return c
}

// Pipeline returns the pipeline for the enabled stages.
func (c *Curator) Pipeline(opts domain.CurationOptions) *Pipeline {
	p := NewPipeline()
	if opts.Cleaning {
		p.Add(c.stages[StageClean])
	}
	if opts.QualityCheck {
		p.Add(c.stages[StageQuality])
	}
	if opts.LanguageDetection {
		p.Add(c.stages[StageLanguage])
	}
	return p
}

// Curate produces a CurationRecord for text. When cleaning is disabled the
// original text is the working and curated text.
func (c *Curator) Curate(ctx context.Context, text string, opts domain.CurationOptions) *domain.CurationRecord {
	return c.Pipeline(opts).Curate(ctx, text)
}

// TextForCuration returns the text of an extraction: its full text, else
// its page texts joined by newlines.
func TextForCuration(raw *domain.RawExtraction) string {
	if raw == nil {
		return ""
	}
	if raw.Text != "" {
		return raw.Text
	}
	pages := make([]string, len(raw.Pages))
	for i, p := range raw.Pages {
		pages[i] = p.Text
	}
	return strings.Join(pages, "\n")
}
