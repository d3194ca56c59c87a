package domain

// MergedResult is the non-semantic union of several engines' outputs.
// It is a derived view and is never mutated after construction.
type MergedResult struct {
	SourceCount      int            `json:"source_count"`
	CombinedText     string         `json:"combined_text"`
	CombinedMetadata map[string]any `json:"combined_metadata"`
	AllTables        []TableEntry   `json:"all_tables"`
	AllPages         []PageEntry    `json:"all_pages"`
}

// TableEntry is one tabular extract in a merged result.
// Exactly one of Table or Sheet is set.
type TableEntry struct {
	EngineID string `json:"engine_id"`
	Table    *Table `json:"table,omitempty"`
	Sheet    *Sheet `json:"sheet,omitempty"`
}

// PageEntry is one page-like unit in a merged result.
// Exactly one of Page or Slide is set.
type PageEntry struct {
	EngineID string `json:"engine_id"`
	Page     *Page  `json:"page,omitempty"`
	Slide    *Slide `json:"slide,omitempty"`
}

// MergeSeparator is placed between engine texts in CombinedText.
const MergeSeparator = "\n\n---\n\n"
