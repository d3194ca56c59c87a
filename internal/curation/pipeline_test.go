package curation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// mockStage is a test stage that transforms text and may fail.
type mockStage struct {
	name      string
	transform func(string) string
	err       error
	panicWith any
	seen      string
}

func (m *mockStage) Name() string {
	return m.name
}

func (m *mockStage) Process(_ context.Context, text string, record *domain.CurationRecord) (string, error) {
	m.seen = text
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if m.err != nil {
		return "", m.err
	}
	if m.transform != nil {
		return m.transform(text), nil
	}
	return text, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 stages, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockStage{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 stage, got %d", p.Len())
	}
	if names := p.Names(); len(names) != 1 || names[0] != "test" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestPipeline_Curate_EmptyPipeline(t *testing.T) {
	record := NewPipeline().Curate(context.Background(), "raw text")

	if record.OriginalText != "raw text" || record.CuratedText != "raw text" {
		t.Errorf("expected passthrough, got %+v", record)
	}
	if record.Cleaning != nil || record.Quality != nil || record.Language != nil {
		t.Error("expected no stage sections")
	}
}

func TestPipeline_Curate_ChainsWorkingText(t *testing.T) {
	second := &mockStage{name: "second"}
	p := NewPipeline(
		&mockStage{name: "upper", transform: strings.ToUpper},
		second,
	)

	record := p.Curate(context.Background(), "abc")

	if second.seen != "ABC" {
		t.Errorf("expected second stage to see ABC, got %q", second.seen)
	}
	if record.CuratedText != "ABC" {
		t.Errorf("expected curated ABC, got %q", record.CuratedText)
	}
	if record.OriginalText != "abc" {
		t.Errorf("expected original abc, got %q", record.OriginalText)
	}
}

func TestPipeline_Curate_StageErrorIsWarning(t *testing.T) {
	after := &mockStage{name: "after"}
	p := NewPipeline(
		&mockStage{name: "upper", transform: strings.ToUpper},
		&mockStage{name: "failing", err: errors.New("boom")},
		after,
	)

	record := p.Curate(context.Background(), "abc")

	if after.seen != "ABC" {
		t.Errorf("expected stage after failure to run on ABC, got %q", after.seen)
	}
	if record.CuratedText != "ABC" {
		t.Errorf("expected curated ABC, got %q", record.CuratedText)
	}
	if len(record.Warnings) != 1 || record.Warnings[0] != "failing: boom" {
		t.Errorf("unexpected warnings %v", record.Warnings)
	}
}

func TestPipeline_Curate_StagePanicIsWarning(t *testing.T) {
	p := NewPipeline(
		&mockStage{name: "panicky", panicWith: "nil map"},
		&mockStage{name: "upper", transform: strings.ToUpper},
	)

	record := p.Curate(context.Background(), "abc")

	if record.CuratedText != "ABC" {
		t.Errorf("expected curated ABC, got %q", record.CuratedText)
	}
	if len(record.Warnings) != 1 || !strings.Contains(record.Warnings[0], "nil map") {
		t.Errorf("unexpected warnings %v", record.Warnings)
	}
}
