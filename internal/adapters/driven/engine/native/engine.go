// Package native provides a built-in extraction engine for documents that
// need no external tooling. It reads plain text, Markdown, DOCX, XLSX, PPTX
// and the text layer of PDFs.
package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.Engine = (*Engine)(nil)

// Engine reads simple document formats in-process.
type Engine struct {
	markdown goldmark.Markdown
}

// New creates the native engine.
func New() *Engine {
	return &Engine{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return domain.NativeEngine
}

// Extract reads the document at path. Legacy binary Office formats and
// images return domain.ErrUnsupportedType.
func (e *Engine) Extract(ctx context.Context, path string, docType domain.DocumentType) (*domain.RawExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	ext := strings.ToLower(filepath.Ext(path))
	var (
		result *domain.RawExtraction
		err    error
	)
	switch {
	case docType == domain.DocumentTypeText && ext == ".md":
		result, err = e.extractMarkdown(path)
	case docType == domain.DocumentTypeText:
		result, err = extractText(path)
	case docType == domain.DocumentTypeWord && ext == ".docx":
		result, err = extractDocx(path)
	case docType == domain.DocumentTypeExcel && (ext == ".xlsx" || ext == ".xlsm"):
		result, err = extractSpreadsheet(path)
	case docType == domain.DocumentTypePowerPoint && ext == ".pptx":
		result, err = extractPptx(path)
	case docType == domain.DocumentTypePDF:
		result, err = extractPDF(path)
	default:
		return nil, fmt.Errorf("%w: native engine cannot read %s (%s)", domain.ErrUnsupportedType, filepath.Base(path), docType)
	}
	if err != nil {
		return nil, err
	}

	result.EngineID = domain.NativeEngine
	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}

func statFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readUTF8(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrInvalidInput, filepath.Base(path))
	}
	return data, nil
}

func extractText(path string) (*domain.RawExtraction, error) {
	data, err := readUTF8(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawExtraction{
		Text:     strings.TrimSpace(string(data)),
		Metadata: map[string]any{"format": "text"},
	}, nil
}
