package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

type format string

const (
	formatAuto format = "auto"
	formatJSON format = "json"
	formatText format = "text"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimSpace(s))); f {
	case formatAuto, formatJSON, formatText:
		return f, nil
	default:
		return "", fmt.Errorf("invalid --format %q: use auto, json or text", s)
	}
}

// resolveFormat picks text for an interactive terminal and JSON otherwise
// when the format is auto.
func resolveFormat(cmd *cobra.Command) format {
	f, err := parseFormat(outputFormat)
	if err != nil || f != formatAuto {
		return f
	}
	if file, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return formatText
	}
	return formatJSON
}

// output writes v as indented JSON, or calls text in text mode.
func output(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if resolveFormat(cmd) == formatText {
		text(w)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// palette mirrors the colours of the interactive theme.
var palette = struct {
	primary, secondary, muted, success, warning, errorc lipgloss.Color
}{
	primary:   lipgloss.Color("#7C3AED"),
	secondary: lipgloss.Color("#06B6D4"),
	muted:     lipgloss.Color("#6C7086"),
	success:   lipgloss.Color("#A6E3A1"),
	warning:   lipgloss.Color("#F9E2AF"),
	errorc:    lipgloss.Color("#F38BA8"),
}

var styles = struct {
	title, heading, label, muted, success, warning, errorText, header lipgloss.Style
}{
	title:     lipgloss.NewStyle().Bold(true).Foreground(palette.primary),
	heading:   lipgloss.NewStyle().Bold(true).Foreground(palette.secondary).MarginTop(1),
	label:     lipgloss.NewStyle().Foreground(palette.muted),
	muted:     lipgloss.NewStyle().Foreground(palette.muted),
	success:   lipgloss.NewStyle().Foreground(palette.success),
	warning:   lipgloss.NewStyle().Foreground(palette.warning),
	errorText: lipgloss.NewStyle().Foreground(palette.errorc),
	header:    lipgloss.NewStyle().Bold(true).Padding(0, 1),
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.muted).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", styles.label.Render(label+":"), value)
}

func heading(w io.Writer, text string) {
	fmt.Fprintln(w, styles.heading.Render(text))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func renderComparison(w io.Writer, c *domain.ComparisonReport) {
	heading(w, "Comparison")
	if c.Error != "" {
		fmt.Fprintln(w, "  "+styles.errorText.Render(c.Error))
		return
	}
	if c.BestProcessor != nil {
		field(w, "Best processor", styles.success.Render(c.BestProcessor.EngineID))
	} else {
		field(w, "Best processor", styles.warning.Render("none (no valid results)"))
	}

	t := newTable().Headers("#", "ENGINE", "SCORE", "LENGTH", "WORDS", "TABLES", "METADATA", "ERRORS")
	for i, s := range c.Rankings {
		t.Row(
			fmt.Sprint(i+1), s.EngineID, fmt.Sprintf("%.3f", s.Score),
			fmt.Sprint(s.Metrics.TextLength), fmt.Sprint(s.Metrics.WordCount),
			yesNo(s.Metrics.HasTables), yesNo(s.Metrics.HasMetadata), yesNo(s.Metrics.HasErrors),
		)
	}
	fmt.Fprintln(w, t.Render())

	for _, rec := range c.Recommendations {
		fmt.Fprintln(w, "  • "+rec)
	}
}

func renderMerged(w io.Writer, m *domain.MergedResult) {
	heading(w, "Ensemble")
	field(w, "Sources", m.SourceCount)
	field(w, "Tables", len(m.AllTables))
	field(w, "Pages", len(m.AllPages))
	field(w, "Metadata keys", len(m.CombinedMetadata))
	field(w, "Text length", len([]rune(m.CombinedText)))
}

func renderCuration(w io.Writer, c *domain.CurationRecord, showText bool) {
	heading(w, "Curation")
	if s := c.Cleaning; s != nil {
		field(w, "Cleaning", fmt.Sprintf("%d → %d characters (%.1f%% removed)",
			s.OriginalLength, s.CleanedLength, s.ReductionPercent))
	}
	if q := c.Quality; q != nil {
		verdict := styles.warning.Render("low quality")
		if q.IsHighQuality {
			verdict = styles.success.Render("high quality")
		}
		field(w, "Quality", fmt.Sprintf("%.1f %s", q.Score, verdict))
		if len(q.FailedFilters) > 0 {
			field(w, "Failed filters", strings.Join(q.FailedFilters, ", "))
		}
	}
	if l := c.Language; l != nil {
		switch {
		case !l.Available:
			field(w, "Language", styles.muted.Render("unavailable"))
		case l.Reason != "":
			field(w, "Language", fmt.Sprintf("%s (%s)", l.Language, l.Reason))
		default:
			field(w, "Language", fmt.Sprintf("%s (%.2f)", l.Language, l.Confidence))
		}
	}
	for _, warning := range c.Warnings {
		field(w, "Warning", styles.warning.Render(warning))
	}
	if showText && c.CuratedText != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.CuratedText)
	}
}

func renderDedup(w io.Writer, d *domain.DedupResult) {
	heading(w, "Deduplication")
	field(w, "Method", d.Method)
	field(w, "Kept", fmt.Sprintf("%d of %d", d.KeptCount, d.OriginalCount))
	field(w, "Removed", d.Removed)
}

func renderReport(w io.Writer, r *domain.ProcessReport) {
	fmt.Fprintln(w, styles.title.Render("Report "+r.ID))
	field(w, "Document", r.Document)
	if r.DocumentType != "" {
		field(w, "Type", r.DocumentType)
	}
	field(w, "Engines", strings.Join(r.Engines, ", "))
	if !r.CreatedAt.IsZero() {
		field(w, "Created", r.CreatedAt.Local().Format(time.DateTime))
	}

	for _, e := range r.Extractions {
		if !e.IsValid() {
			field(w, "Engine error", styles.errorText.Render(e.EngineID+": "+e.Error))
		}
	}

	if r.Comparison != nil {
		renderComparison(w, r.Comparison)
	}
	if r.Merged != nil {
		renderMerged(w, r.Merged)
	} else if r.MergeError != "" {
		heading(w, "Ensemble")
		fmt.Fprintln(w, "  "+styles.errorText.Render(r.MergeError))
	}
	if r.Curation != nil {
		renderCuration(w, r.Curation, false)
	}
	if r.Dedup != nil {
		renderDedup(w, r.Dedup)
	}
	if e := r.Enrichment; e != nil {
		heading(w, "Enrichment")
		if e.Error != "" {
			fmt.Fprintln(w, "  "+styles.errorText.Render(e.Error))
		} else {
			fmt.Fprintln(w, e.Response)
		}
	}
}

func renderSummaries(w io.Writer, summaries []domain.ReportSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No reports found.")
		return
	}
	t := newTable().Headers("ID", "DOCUMENT", "ENGINES", "BEST", "QUALITY", "CREATED")
	for _, s := range summaries {
		quality := "-"
		if s.QualityScore != nil {
			quality = fmt.Sprintf("%.1f", *s.QualityScore)
		}
		best := s.BestProcessor
		if best == "" {
			best = "-"
		}
		t.Row(s.ID, s.Document, fmt.Sprint(s.EngineCount), best, quality, humanize.Time(s.CreatedAt))
	}
	fmt.Fprintln(w, t.Render())
}
