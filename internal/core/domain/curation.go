package domain

// CurationRecord is the result of curating one text payload.
// Sections for disabled stages are nil. The record is additive: a failing
// stage adds a warning and leaves the results of earlier stages intact.
type CurationRecord struct {
	OriginalText string          `json:"original_text"`
	CuratedText  string          `json:"curated_text"`
	Cleaning     *CleaningStats  `json:"cleaning_stats,omitempty"`
	Quality      *QualityReport  `json:"quality,omitempty"`
	Language     *LanguageReport `json:"language,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// CleaningStats describes how much text cleaning removed.
// Lengths are counted in Unicode code points.
type CleaningStats struct {
	OriginalLength   int     `json:"original_length"`
	CleanedLength    int     `json:"cleaned_length"`
	RemovedChars     int     `json:"removed_chars"`
	ReductionPercent float64 `json:"reduction_percent"`
}

// CleanResult is the output of text cleaning.
type CleanResult struct {
	CleanedText string        `json:"cleaned_text"`
	Stats       CleaningStats `json:"cleaning_stats"`
}

// Quality filter names.
const (
	FilterMinimumLength          = "minimum_length"
	FilterMinimumWords           = "minimum_words"
	FilterCharDiversity          = "char_diversity"
	FilterLowRepetition          = "low_repetition"
	FilterHighRepetition         = "high_repetition"
	FilterReasonableSpecialChars = "reasonable_special_chars"
	FilterExcessiveSpecialChars  = "excessive_special_chars"
)

// QualityReport is the outcome of heuristic quality assessment.
type QualityReport struct {
	Score         float64        `json:"quality_score"`
	Metrics       QualityMetrics `json:"quality_metrics"`
	PassedFilters []string       `json:"passed_filters"`
	FailedFilters []string       `json:"failed_filters"`
	IsHighQuality bool           `json:"is_high_quality"`
}

// QualityMetrics are the raw measurements behind a QualityReport.
// RepetitionRatio is nil when the text has no words.
type QualityMetrics struct {
	Length           int      `json:"length"`
	WordCount        int      `json:"word_count"`
	CharCount        int      `json:"char_count"`
	CharDiversity    float64  `json:"char_diversity"`
	RepetitionRatio  *float64 `json:"repetition_ratio,omitempty"`
	SpecialCharRatio float64  `json:"special_char_ratio"`
}

// QualityThresholds configures the heuristic quality filters.
type QualityThresholds struct {
	MinLength           int
	MinWords            int
	MinCharDiversity    float64
	MaxRepetitionRatio  float64
	MaxSpecialCharRatio float64
	HighQualityScore    float64
	WordCountBonusAbove int
	DiversityBonusAbove float64
	BonusPoints         float64
}

// DefaultQualityThresholds returns the standard quality thresholds.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinLength:           50,
		MinWords:            10,
		MinCharDiversity:    0.1,
		MaxRepetitionRatio:  0.3,
		MaxSpecialCharRatio: 0.3,
		HighQualityScore:    70,
		WordCountBonusAbove: 100,
		DiversityBonusAbove: 0.3,
		BonusPoints:         5,
	}
}

// Language detection reasons.
const (
	LanguageUnknown       = "unknown"
	ReasonTextTooShort    = "text_too_short"
	ReasonNoLanguageFound = "no_language_found"
)

// LanguageCandidate is one detected language with its probability.
type LanguageCandidate struct {
	Language    string  `json:"language"`
	Probability float64 `json:"probability"`
}

// LanguageReport is the outcome of best-effort language identification.
type LanguageReport struct {
	Language   string              `json:"language"`
	Confidence float64             `json:"confidence"`
	Candidates []LanguageCandidate `json:"all_languages,omitempty"`
	Available  bool                `json:"available"`
	Reason     string              `json:"reason,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// CurationOptions toggles the curation stages independently.
type CurationOptions struct {
	Cleaning          bool
	QualityCheck      bool
	LanguageDetection bool
}

// DefaultCurationOptions enables every stage.
func DefaultCurationOptions() CurationOptions {
	return CurationOptions{
		Cleaning:          true,
		QualityCheck:      true,
		LanguageDetection: true,
	}
}
