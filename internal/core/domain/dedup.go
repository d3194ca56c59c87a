package domain

// DedupMethod selects how duplicate texts are detected.
type DedupMethod string

// Available deduplication methods.
const (
	// DedupExact removes byte-identical texts by content hash.
	DedupExact DedupMethod = "exact"

	// DedupFuzzy removes near-duplicates by embedding cosine similarity.
	// Requires an embedding service; falls back to exact without one.
	DedupFuzzy DedupMethod = "fuzzy"
)

// DefaultFuzzyThreshold is the cosine similarity at or above which two
// texts are considered duplicates.
const DefaultFuzzyThreshold = 0.95

// IsValid returns true if the method is recognised.
func (m DedupMethod) IsValid() bool {
	return m == DedupExact || m == DedupFuzzy
}

// String returns the string representation.
func (m DedupMethod) String() string {
	return string(m)
}

// DedupResult is the outcome of deduplicating a collection of texts.
type DedupResult struct {
	Kept          []string    `json:"deduplicated_texts"`
	OriginalCount int         `json:"original_count"`
	KeptCount     int         `json:"deduplicated_count"`
	Removed       int         `json:"removed_count"`
	Duplicates    []string    `json:"duplicates"`
	Method        DedupMethod `json:"method"`
}
