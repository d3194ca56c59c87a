package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/adapters/driving/watch"
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/logger"
)

var (
	watchExisting bool
	watchDebounce time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process <document>...",
	Short: "Run the configured engines on documents and fuse their results",
	Long: `Runs every configured extraction engine on each document in parallel,
then compares, merges, curates and deduplicates the results. Engine
failures are recorded in the report and never stop the run.

Engines are configured in the [engines] section of config.toml.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Analyse results bundles as they appear in a directory",
	Long: `Watches a directory and runs the fusion pipeline over every *.json
results bundle written to it. A bundle is a JSON array of extraction
results, or an object with "document" and "extractions" fields.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also analyse bundles already in the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed bundle is analysed")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(watchCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}

	var errs []error
	for _, path := range args {
		logger.Section("process " + path)
		report, err := fusionService.Process(cmd.Context(), path)
		if perr := printReport(cmd, report, err); perr != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, perr))
		}
	}
	return errors.Join(errs...)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireFusion(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	text := resolveFormat(cmd) == formatText

	handle := func(ctx context.Context, path string) error {
		b, err := loadBundle(cmd, path)
		if err != nil {
			return err
		}
		report, err := fusionService.Analyse(ctx, b.Document, b.Extractions)
		if report == nil {
			return err
		}
		if text {
			renderSummaries(out, []domain.ReportSummary{report.Summary()})
		} else {
			// One JSON object per line so the stream can be piped.
			line, mErr := json.Marshal(report.Summary())
			if mErr != nil {
				return mErr
			}
			fmt.Fprintln(out, string(line))
		}
		return err
	}

	w, err := watch.New(args[0], handle,
		watch.WithDebounce(watchDebounce),
		watch.WithErrorHandler(func(path string, err error) {
			cmd.PrintErrf("%s: %v\n", path, err)
		}),
	)
	if err != nil {
		return err
	}

	if watchExisting {
		if err := w.HandleExisting(cmd.Context()); err != nil {
			return err
		}
	}
	return w.Run(cmd.Context())
}
