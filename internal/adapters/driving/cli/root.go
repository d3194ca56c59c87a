// Package cli provides the cobra command tree for docfuse.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/core/ports/driving"
	"github.com/custodia-labs/docfuse/internal/logger"
)

// Services are the core services the commands drive.
type Services struct {
	Fusion   driving.FusionService
	Reports  driving.ReportService
	Settings driving.SettingsService
}

// Bootstrap builds the services for a config directory. An empty directory
// means the default ~/.docfuse. The returned cleanup runs once the command
// has finished.
type Bootstrap func(ctx context.Context, configDir string) (*Services, func(), error)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var (
	version = "dev"

	bootstrap Bootstrap
	cleanup   func()

	fusionService   driving.FusionService
	reportService   driving.ReportService
	settingsService driving.SettingsService
)

// Global flags.
var (
	verbose      bool
	configDir    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docfuse",
	Short: "Fuse document extraction results from several engines",
	Long: `docfuse compares, merges and curates the outputs of several document
extraction engines run on the same document.

Results are scored and ranked, combined into an ensemble view, cleaned,
quality-checked, language-tagged and deduplicated. Reports of processed
documents are kept in the configured report store.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docfuse)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", string(formatAuto), "output format: auto, json or text")
}

// Execute runs the root command. Services are built lazily by b once the
// command and its flags are known.
func Execute(ctx context.Context, b Bootstrap, v string) error {
	bootstrap = b
	if v != "" {
		version = v
	}
	defer runCleanup()
	return rootCmd.ExecuteContext(ctx)
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	fusionService = s.Fusion
	reportService = s.Reports
	settingsService = s.Settings
}

func persistentPreRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	services, done, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}

func runCleanup() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

func requireFusion() error {
	if fusionService == nil {
		return errors.New("fusion service not configured")
	}
	return nil
}

func requireReports() error {
	if reportService == nil {
		return errors.New("report service not configured")
	}
	return nil
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}
