// Package vision provides an extraction engine that reads image documents
// with a multimodal Ollama model.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docfuse/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.Engine = (*Engine)(nil)

// Default configuration values.
const (
	DefaultModel   = "llava"
	DefaultTimeout = 120 * time.Second
	DefaultPrompt  = "Extract all text and describe the visual content of this document image:"
)

// Engine sends an image and a prompt to /api/generate and returns the
// model's response as the extracted text.
type Engine struct {
	api    *ollamaapi.Client
	name   string
	model  string
	prompt string
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// New creates a vision engine from its settings. Empty fields take the
// package defaults.
func New(cfg domain.EngineSettings) *Engine {
	name := cfg.Name
	if name == "" {
		name = domain.VisionEngine
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		api:    ollamaapi.NewClient(cfg.BaseURL, timeout),
		name:   name,
		model:  model,
		prompt: DefaultPrompt,
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return e.name
}

// Model returns the vision model name.
func (e *Engine) Model() string {
	return e.model
}

// Extract describes one image document. Other document types return
// domain.ErrUnsupportedType.
func (e *Engine) Extract(ctx context.Context, path string, docType domain.DocumentType) (*domain.RawExtraction, error) {
	if docType != domain.DocumentTypeImage {
		return nil, fmt.Errorf("%w: vision engine reads images, not %s", domain.ErrUnsupportedType, docType)
	}
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, filepath.Base(path))
	}

	req := generateRequest{
		Model:  e.model,
		Prompt: e.prompt,
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	}
	var out generateResponse
	if err := e.api.Post(ctx, "/api/generate", req, &out); err != nil {
		return nil, fmt.Errorf("describe image with %s: %w", e.model, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", out.Error)
	}

	return &domain.RawExtraction{
		EngineID: e.name,
		Text:     strings.TrimSpace(out.Response),
		Metadata: map[string]any{
			"format": strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			"model":  e.model,
		},
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// Ping checks the Ollama server is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.api.Ping(ctx)
}

// Close releases idle connections.
func (e *Engine) Close() error {
	e.api.Close()
	return nil
}
