package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// mockEngine returns a fixed extraction or error.
type mockEngine struct {
	name   string
	result *domain.RawExtraction
	err    error
	panic  bool

	// started, when set, is closed by the test once every engine runs.
	started chan struct{}
	wg      *sync.WaitGroup
}

func (m *mockEngine) Name() string { return m.name }

func (m *mockEngine) Extract(ctx context.Context, _ string, _ domain.DocumentType) (*domain.RawExtraction, error) {
	if m.wg != nil {
		m.wg.Done()
		select {
		case <-m.started:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.panic {
		panic("engine crashed")
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, nil
	}
	r := *m.result
	return &r, nil
}

// mockLLM records prompts and returns a fixed response.
type mockLLM struct {
	mu       sync.Mutex
	prompts  []string
	response string
	err      error
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("unknown prompt")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockEmbedder maps each text to a fixed vector.
type mockEmbedder struct {
	vectors map[string][]float32
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return m.vectors[text], nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = m.Embed(ctx, t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 2 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// failingReportStore fails every Save.
type failingReportStore struct {
	driven.ReportStore
}

func (f *failingReportStore) Save(_ context.Context, _ *domain.ProcessReport) error {
	return errors.New("disk full")
}
