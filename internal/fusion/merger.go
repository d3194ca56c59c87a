package fusion

import (
	"maps"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Merge builds the non-semantic union of results in input order. Errored
// results are skipped. Texts are joined with domain.MergeSeparator,
// metadata is merged last-write-wins, tables are followed by sheets and
// pages by slides for each result.
//
// Returns domain.ErrEmptyInput for no results and domain.ErrNoValidResults
// when every result carries an error.
func Merge(results []domain.RawExtraction) (*domain.MergedResult, error) {
	if len(results) == 0 {
		return nil, domain.ErrEmptyInput
	}

	merged := &domain.MergedResult{
		CombinedMetadata: make(map[string]any),
		AllTables:        []domain.TableEntry{},
		AllPages:         []domain.PageEntry{},
	}
	var texts []string

	for i := range results {
		r := &results[i]
		if !r.IsValid() {
			continue
		}
		merged.SourceCount++
		engine := EngineName(i, r)

		if r.Text != "" {
			texts = append(texts, r.Text)
		}
		maps.Copy(merged.CombinedMetadata, r.Metadata)

		for _, t := range r.Tables {
			merged.AllTables = append(merged.AllTables, domain.TableEntry{EngineID: engine, Table: &t})
		}
		for _, s := range r.Sheets {
			merged.AllTables = append(merged.AllTables, domain.TableEntry{EngineID: engine, Sheet: &s})
		}
		for _, p := range r.Pages {
			merged.AllPages = append(merged.AllPages, domain.PageEntry{EngineID: engine, Page: &p})
		}
		for _, s := range r.Slides {
			merged.AllPages = append(merged.AllPages, domain.PageEntry{EngineID: engine, Slide: &s})
		}
	}

	if merged.SourceCount == 0 {
		return nil, domain.ErrNoValidResults
	}

	merged.CombinedText = strings.Join(texts, domain.MergeSeparator)
	return merged, nil
}
