package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var compareCmd = &cobra.Command{
	Use:   "compare <results.json|->",
	Short: "Score and rank extraction results",
	Long: `Scores every extraction in a results bundle and ranks them.

The bundle is a JSON array of extraction results, or an object with
"document" and "extractions" fields. Use - to read it from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

var mergeCmd = &cobra.Command{
	Use:   "merge <results.json|->",
	Short: "Merge extraction results into an ensemble view",
	Long: `Combines the text, metadata, tables and pages of every valid extraction
in a results bundle. Results carrying an engine error are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

var analyseCmd = &cobra.Command{
	Use:     "analyse <results.json|->",
	Aliases: []string{"analyze"},
	Short:   "Run the full fusion pipeline over a results bundle",
	Long: `Compares, merges, curates, deduplicates and optionally enriches the
extractions in a results bundle, then stores the report.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyse,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(analyseCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}
	b, err := loadBundle(cmd, args[0])
	if err != nil {
		return err
	}

	report := fusionService.Compare(cmd.Context(), b.Extractions)
	return output(cmd, report, func(w io.Writer) {
		renderComparison(w, report)
	})
}

func runMerge(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}
	b, err := loadBundle(cmd, args[0])
	if err != nil {
		return err
	}

	merged, err := fusionService.Merge(cmd.Context(), b.Extractions)
	if err != nil {
		return err
	}
	return output(cmd, merged, func(w io.Writer) {
		renderMerged(w, merged)
	})
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}
	b, err := loadBundle(cmd, args[0])
	if err != nil {
		return err
	}

	report, err := fusionService.Analyse(cmd.Context(), b.Document, b.Extractions)
	return printReport(cmd, report, err)
}

// printReport writes a report and passes through a non-fatal service error
// such as a failed save.
func printReport(cmd *cobra.Command, report *domain.ProcessReport, err error) error {
	if report == nil {
		return err
	}
	if outErr := output(cmd, report, func(w io.Writer) {
		renderReport(w, report)
	}); outErr != nil {
		return outErr
	}
	return err
}
