// Package fusion ranks, compares and merges the outputs of several
// extraction engines for one document.
package fusion

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// ExtractionText derives the comparable text of an extraction: its full
// text, else its page texts joined by newlines, else the JSON encoding of
// its sheet data. An extraction with none of these yields the empty string.
func ExtractionText(raw *domain.RawExtraction) string {
	if raw.Text != "" {
		return raw.Text
	}
	if len(raw.Pages) > 0 {
		texts := make([]string, len(raw.Pages))
		for i, p := range raw.Pages {
			texts[i] = p.Text
		}
		if joined := strings.Join(texts, "\n"); joined != "" {
			return joined
		}
	}
	if len(raw.Sheets) > 0 {
		data := make([][][]any, len(raw.Sheets))
		for i, s := range raw.Sheets {
			data[i] = s.Data
			if data[i] == nil {
				data[i] = [][]any{}
			}
		}
		return encodeSheetData(data)
	}
	return ""
}

// EngineName returns the engine ID of the extraction at index, or a
// positional name when the engine did not identify itself.
func EngineName(index int, raw *domain.RawExtraction) string {
	if raw.EngineID != "" {
		return raw.EngineID
	}
	return fmt.Sprintf("processor_%d", index)
}
