package native

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// extractPDF reads the text layer of each page. Scanned pages without a
// text layer come back empty; OCR is left to external engines.
func extractPDF(path string) (*domain.RawExtraction, error) {
	if err := statFile(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable PDF: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]domain.Page, 0, total)
	var text []string
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrInvalidInput, i, err)
		}
		content = strings.TrimSpace(content)
		pages = append(pages, domain.Page{Number: i, Text: content})
		if content != "" {
			text = append(text, content)
		}
	}

	return &domain.RawExtraction{
		Text:  strings.Join(text, "\n\n"),
		Pages: pages,
		Metadata: map[string]any{
			"format": "pdf",
			"pages":  total,
		},
	}, nil
}
