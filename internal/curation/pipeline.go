// Package curation turns one extracted text into a CurationRecord by
// running configurable stages: clean, quality and language.
package curation

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.CurationPipeline = (*Pipeline)(nil)

// Pipeline chains CurationStages and runs them in order.
// The record is additive: a failing stage adds a warning and the
// remaining stages still run on the last good working text.
type Pipeline struct {
	stages []driven.CurationStage
}

// NewPipeline creates a new curation pipeline with the given stages.
// Stages are executed in the order provided.
func NewPipeline(stages ...driven.CurationStage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// Curate runs text through all stages in order.
func (p *Pipeline) Curate(ctx context.Context, text string) *domain.CurationRecord {
	record := &domain.CurationRecord{
		OriginalText: text,
		CuratedText:  text,
	}

	working := text
	for _, stage := range p.stages {
		out, err := runStage(ctx, stage, working, record)
		if err != nil {
			record.Warnings = append(record.Warnings, fmt.Sprintf("%s: %v", stage.Name(), err))
			continue
		}
		working = out
	}

	record.CuratedText = working
	return record
}

// runStage isolates a stage so a panic is reported like an error.
func runStage(
	ctx context.Context,
	stage driven.CurationStage,
	text string,
	record *domain.CurationRecord,
) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = text, fmt.Errorf("panic: %v", r)
		}
	}()
	return stage.Process(ctx, text, record)
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage driven.CurationStage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}
