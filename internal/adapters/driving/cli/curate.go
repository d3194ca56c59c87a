package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var (
	curateNoClean    bool
	curateNoQuality  bool
	curateNoLanguage bool

	dedupeMethod string
)

var curateCmd = &cobra.Command{
	Use:   "curate <text-file|->",
	Short: "Clean, quality-check and language-tag a text",
	Long: `Runs the curation stages over one text: cleaning, heuristic quality
assessment and language detection. Each stage can be switched off.`,
	Args: cobra.ExactArgs(1),
	RunE: runCurate,
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <text-file>... | -",
	Short: "Remove duplicate texts",
	Long: `Removes duplicate texts, keeping the first occurrence of each.

Each file argument is one text. With - a JSON array of strings is read from
stdin. The exact method compares content hashes; the fuzzy method compares
embeddings and falls back to exact when no embedding service is configured.
Any other method also uses exact.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedupe,
}

func init() {
	curateCmd.Flags().BoolVar(&curateNoClean, "no-clean", false, "skip text cleaning")
	curateCmd.Flags().BoolVar(&curateNoQuality, "no-quality", false, "skip quality assessment")
	curateCmd.Flags().BoolVar(&curateNoLanguage, "no-language", false, "skip language detection")
	dedupeCmd.Flags().StringVarP(&dedupeMethod, "method", "m", string(domain.DedupExact), "deduplication method: exact or fuzzy")
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(dedupeCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	opts := domain.CurationOptions{
		Cleaning:          !curateNoClean,
		QualityCheck:      !curateNoQuality,
		LanguageDetection: !curateNoLanguage,
	}
	record := fusionService.Curate(cmd.Context(), string(data), opts)
	return output(cmd, record, func(w io.Writer) {
		renderCuration(w, record, true)
	})
}

func runDedupe(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}
	method := domain.DedupMethod(dedupeMethod)
	texts, err := readTexts(cmd, args)
	if err != nil {
		return err
	}

	result := fusionService.Dedupe(cmd.Context(), texts, method)
	return output(cmd, result, func(w io.Writer) {
		renderDedup(w, result)
	})
}

func readTexts(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 1 && args[0] == stdinArg {
		data, err := readInput(cmd, stdinArg)
		if err != nil {
			return nil, err
		}
		var texts []string
		if err := json.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("%w: stdin must be a JSON array of strings: %w", domain.ErrInvalidInput, err)
		}
		return texts, nil
	}

	texts := make([]string, 0, len(args))
	for _, arg := range args {
		data, err := readInput(cmd, arg)
		if err != nil {
			return nil, err
		}
		texts = append(texts, string(data))
	}
	return texts, nil
}
