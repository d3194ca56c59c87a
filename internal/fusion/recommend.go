package fusion

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// Recommendations turns metrics into human-readable advice. A condition
// that no engine meets produces no recommendation.
func Recommendations(metrics []domain.Metric) []string {
	var recs []string

	if best, ok := mostText(metrics); ok {
		recs = append(recs, fmt.Sprintf("'%s' extracted the most text (%d characters)",
			best.EngineID, best.TextLength))
	}

	var errored, tables, metadata []string
	for _, m := range metrics {
		if m.HasErrors {
			errored = append(errored, m.EngineID)
		}
		if m.HasTables {
			tables = append(tables, m.EngineID)
		}
		if m.HasMetadata {
			metadata = append(metadata, m.EngineID)
		}
	}

	if len(errored) > 0 {
		recs = append(recs, "Warning: The following processors encountered errors: "+
			strings.Join(errored, ", "))
	}
	if len(tables) > 0 {
		recs = append(recs, "For documents with tables, consider using: "+strings.Join(tables, ", "))
	}
	if len(metadata) > 0 {
		recs = append(recs, "For document metadata extraction, consider using: "+
			strings.Join(metadata, ", "))
	}
	return recs
}

// mostText returns the first valid engine with the longest text.
func mostText(metrics []domain.Metric) (domain.Metric, bool) {
	var (
		best  domain.Metric
		found bool
	)
	for _, m := range metrics {
		if m.HasErrors {
			continue
		}
		if !found || m.TextLength > best.TextLength {
			best, found = m, true
		}
	}
	return best, found
}
