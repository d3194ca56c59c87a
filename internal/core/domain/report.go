package domain

import "time"

// ProcessReport is everything produced for one document in one fusion run.
// It is handed to the ReportStore as a plain serialisable record.
type ProcessReport struct {
	// ID is the unique identifier for the report.
	ID string `json:"id"`

	// Document is the input path or caller-supplied document name.
	Document string `json:"document"`

	// DocumentType is the declared type passed to engines.
	DocumentType DocumentType `json:"document_type,omitempty"`

	// Engines lists the engine IDs in input order.
	Engines []string `json:"engines"`

	// Extractions are the raw engine outputs, failures included.
	Extractions []RawExtraction `json:"extractions"`

	// Comparison is set when comparison is enabled.
	Comparison *ComparisonReport `json:"comparison,omitempty"`

	// Merged is set when the ensemble merge is enabled and succeeded.
	Merged *MergedResult `json:"ensemble,omitempty"`

	// MergeError records why the merge produced no result.
	MergeError string `json:"merge_error,omitempty"`

	// Curation is set when any curation stage is enabled.
	Curation *CurationRecord `json:"curation,omitempty"`

	// Dedup reports duplicate texts across engines when enabled.
	Dedup *DedupResult `json:"dedup,omitempty"`

	// Enrichment is set when LLM enrichment was attempted.
	Enrichment *Enrichment `json:"enrichment,omitempty"`

	// CreatedAt is when the report was produced.
	CreatedAt time.Time `json:"created_at"`
}

// Enrichment is the optional language-model response for a curated text.
type Enrichment struct {
	Model    string `json:"model,omitempty"`
	Prompt   string `json:"prompt"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReportSummary is a compact view of a stored report for listings.
type ReportSummary struct {
	ID            string    `json:"id"`
	Document      string    `json:"document"`
	EngineCount   int       `json:"engine_count"`
	BestProcessor string    `json:"best_processor,omitempty"`
	QualityScore  *float64  `json:"quality_score,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary builds the listing view of the report.
func (r *ProcessReport) Summary() ReportSummary {
	s := ReportSummary{
		ID:          r.ID,
		Document:    r.Document,
		EngineCount: len(r.Extractions),
		CreatedAt:   r.CreatedAt,
	}
	if r.Comparison != nil && r.Comparison.BestProcessor != nil {
		s.BestProcessor = r.Comparison.BestProcessor.EngineID
	}
	if r.Curation != nil && r.Curation.Quality != nil {
		score := r.Curation.Quality.Score
		s.QualityScore = &score
	}
	return s
}
