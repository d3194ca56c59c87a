package domain

// Metric holds the structural signals derived from one RawExtraction.
// It is always recomputed from the extraction and never stored on its own.
type Metric struct {
	EngineID       string `json:"processor"`
	TextLength     int    `json:"text_length"`
	WordCount      int    `json:"word_count"`
	HasTables      bool   `json:"has_tables"`
	HasMetadata    bool   `json:"has_metadata"`
	HasErrors      bool   `json:"has_errors"`
	ProcessingTime any    `json:"processing_time,omitempty"`
}

// ScoredResult is a Metric with its heuristic score.
// Only the ordering of scores within one comparison is meaningful.
type ScoredResult struct {
	EngineID string  `json:"processor"`
	Score    float64 `json:"score"`
	Metrics  Metric  `json:"metrics"`
}

// ComparisonReport is the outcome of ranking several engines' outputs.
// When Error is set the report is terminal and every other field is empty.
type ComparisonReport struct {
	Error           string         `json:"error,omitempty"`
	TotalEngines    int            `json:"total_processors,omitempty"`
	Engines         []string       `json:"processors,omitempty"`
	Metrics         []Metric       `json:"comparison_metrics,omitempty"`
	Rankings        []ScoredResult `json:"rankings,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`

	// BestProcessor is the top-ranked valid engine, or nil when no engine
	// produced a valid extraction.
	BestProcessor *ScoredResult `json:"best_processor,omitempty"`
}

// ScoringWeights are the heuristic weights used to score an extraction.
// Score = text_length/TextLengthDivisor + TableBonus*has_tables
// + MetadataBonus*has_metadata - ErrorPenalty*has_errors.
type ScoringWeights struct {
	TextLengthDivisor float64
	TableBonus        float64
	MetadataBonus     float64
	ErrorPenalty      float64
}

// DefaultScoringWeights returns the standard scoring weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		TextLengthDivisor: 1000,
		TableBonus:        10,
		MetadataBonus:     5,
		ErrorPenalty:      50,
	}
}
