// Package export renders process reports as Markdown, HTML or YAML documents.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Markdown writes a Markdown rendering of the report to w.
func Markdown(w io.Writer, r *domain.ProcessReport) error {
	if r == nil {
		return domain.ErrInvalidInput
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "# Fusion report: %s\n\n", r.Document)
	fmt.Fprintf(&b, "- **ID**: `%s`\n", r.ID)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Created**: %s\n", r.CreatedAt.UTC().Format(time.RFC3339))
	}
	if r.DocumentType != "" {
		fmt.Fprintf(&b, "- **Document type**: %s\n", r.DocumentType)
	}
	fmt.Fprintf(&b, "- **Engines**: %s\n", strings.Join(r.Engines, ", "))

	writeComparison(&b, r.Comparison)
	writeEnsemble(&b, r.Merged, r.MergeError)
	writeCuration(&b, r.Curation)
	writeDedup(&b, r.Dedup)
	writeEnrichment(&b, r.Enrichment)
	writeEngineErrors(&b, r.Extractions)

	_, err := w.Write(b.Bytes())
	return err
}

// HTML writes the Markdown rendering of the report converted to HTML.
// Extracted text is untrusted, so the output is sanitised.
func HTML(w io.Writer, r *domain.ProcessReport) error {
	var src bytes.Buffer
	if err := Markdown(&src, r); err != nil {
		return err
	}

	var out bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert(src.Bytes(), &out); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}
	if _, err := htmlPolicy.SanitizeReader(&out).WriteTo(w); err != nil {
		return err
	}
	return nil
}

var htmlPolicy = bluemonday.UGCPolicy()

func writeComparison(b *bytes.Buffer, c *domain.ComparisonReport) {
	if c == nil {
		return
	}
	b.WriteString("\n## Comparison\n\n")
	if c.Error != "" {
		fmt.Fprintf(b, "Comparison failed: %s\n", c.Error)
		return
	}

	if c.BestProcessor != nil {
		fmt.Fprintf(b, "Best processor: **%s** (score %.3f)\n\n", c.BestProcessor.EngineID, c.BestProcessor.Score)
	} else {
		b.WriteString("No engine produced a valid extraction.\n\n")
	}

	b.WriteString("| Rank | Engine | Score | Length | Words | Tables | Metadata | Errors |\n")
	b.WriteString("|---:|---|---:|---:|---:|:---:|:---:|:---:|\n")
	for i, s := range c.Rankings {
		fmt.Fprintf(b, "| %d | %s | %.3f | %d | %d | %s | %s | %s |\n",
			i+1, cellEscaper.Replace(s.EngineID), s.Score,
			s.Metrics.TextLength, s.Metrics.WordCount,
			mark(s.Metrics.HasTables), mark(s.Metrics.HasMetadata), mark(s.Metrics.HasErrors))
	}

	if len(c.Recommendations) > 0 {
		b.WriteString("\n### Recommendations\n\n")
		for _, rec := range c.Recommendations {
			fmt.Fprintf(b, "- %s\n", rec)
		}
	}
}

func writeEnsemble(b *bytes.Buffer, m *domain.MergedResult, mergeErr string) {
	if m == nil && mergeErr == "" {
		return
	}
	b.WriteString("\n## Ensemble\n\n")
	if m == nil {
		fmt.Fprintf(b, "Merge failed: %s\n", mergeErr)
		return
	}
	fmt.Fprintf(b, "- **Sources**: %d\n", m.SourceCount)
	fmt.Fprintf(b, "- **Tables**: %d\n", len(m.AllTables))
	fmt.Fprintf(b, "- **Pages**: %d\n", len(m.AllPages))
	fmt.Fprintf(b, "- **Metadata keys**: %d\n", len(m.CombinedMetadata))
}

func writeCuration(b *bytes.Buffer, c *domain.CurationRecord) {
	if c == nil {
		return
	}
	b.WriteString("\n## Curation\n\n")
	if c.Cleaning != nil {
		fmt.Fprintf(b, "- **Cleaning**: %d → %d characters (%.1f%% removed)\n",
			c.Cleaning.OriginalLength, c.Cleaning.CleanedLength, c.Cleaning.ReductionPercent)
	}
	if q := c.Quality; q != nil {
		verdict := "low quality"
		if q.IsHighQuality {
			verdict = "high quality"
		}
		fmt.Fprintf(b, "- **Quality**: %.1f (%s)\n", q.Score, verdict)
		if len(q.FailedFilters) > 0 {
			fmt.Fprintf(b, "- **Failed filters**: %s\n", strings.Join(q.FailedFilters, ", "))
		}
	}
	if l := c.Language; l != nil {
		switch {
		case !l.Available:
			b.WriteString("- **Language**: unavailable\n")
		case l.Reason != "":
			fmt.Fprintf(b, "- **Language**: %s (%s)\n", l.Language, l.Reason)
		default:
			fmt.Fprintf(b, "- **Language**: %s (%.2f)\n", l.Language, l.Confidence)
		}
	}
	for _, w := range c.Warnings {
		fmt.Fprintf(b, "- **Warning**: %s\n", w)
	}

	if c.CuratedText != "" {
		b.WriteString("\n### Curated text\n\n")
		fence := codeFence(c.CuratedText)
		fmt.Fprintf(b, "%s\n%s\n%s\n", fence, c.CuratedText, fence)
	}
}

func writeDedup(b *bytes.Buffer, d *domain.DedupResult) {
	if d == nil {
		return
	}
	b.WriteString("\n## Deduplication\n\n")
	fmt.Fprintf(b, "- **Method**: %s\n", d.Method)
	fmt.Fprintf(b, "- **Texts**: %d kept of %d (%d removed)\n", d.KeptCount, d.OriginalCount, d.Removed)
}

func writeEnrichment(b *bytes.Buffer, e *domain.Enrichment) {
	if e == nil {
		return
	}
	b.WriteString("\n## Enrichment\n\n")
	if e.Model != "" {
		fmt.Fprintf(b, "Model: %s\n\n", e.Model)
	}
	if e.Error != "" {
		fmt.Fprintf(b, "Enrichment failed: %s\n", e.Error)
		return
	}
	b.WriteString(e.Response)
	b.WriteString("\n")
}

func writeEngineErrors(b *bytes.Buffer, extractions []domain.RawExtraction) {
	var failed []domain.RawExtraction
	for _, e := range extractions {
		if !e.IsValid() {
			failed = append(failed, e)
		}
	}
	if len(failed) == 0 {
		return
	}
	b.WriteString("\n## Engine errors\n\n")
	for _, e := range failed {
		fmt.Fprintf(b, "- **%s**: %s\n", e.EngineID, e.Error)
	}
}

func mark(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// codeFence returns a backtick fence longer than any run inside text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
