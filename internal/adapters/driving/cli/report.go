package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/export"
)

var (
	reportLimit    int
	exportAs       string
	exportOutput   string
	reportShowText bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect stored process reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var reportGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportGet,
}

var reportExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored report as Markdown, HTML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportExport,
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportDelete,
}

func init() {
	reportListCmd.Flags().IntVarP(&reportLimit, "limit", "n", 20, "maximum number of reports (0 = all)")
	reportGetCmd.Flags().BoolVar(&reportShowText, "text", false, "include the curated text in text output")
	reportExportCmd.Flags().StringVar(&exportAs, "as", "markdown", "export format: markdown, html, json or yaml")
	reportExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGetCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportDeleteCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if err := requireReports(); err != nil {
		return err
	}
	summaries, err := reportService.List(cmd.Context(), reportLimit)
	if err != nil {
		return err
	}
	return output(cmd, summaries, func(w io.Writer) {
		renderSummaries(w, summaries)
	})
}

func runReportGet(cmd *cobra.Command, args []string) error {
	if err := requireReports(); err != nil {
		return err
	}
	report, err := reportService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return output(cmd, report, func(w io.Writer) {
		renderReport(w, report)
		if reportShowText && report.Curation != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, report.Curation.CuratedText)
		}
	})
}

func runReportExport(cmd *cobra.Command, args []string) error {
	if err := requireReports(); err != nil {
		return err
	}
	report, err := reportService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch strings.ToLower(exportAs) {
	case "markdown", "md":
		err = export.Markdown(&buf, report)
	case "html":
		err = export.HTML(&buf, report)
	case "yaml", "yml":
		err = export.YAML(&buf, report)
	case "json":
		var data []byte
		data, err = json.MarshalIndent(report, "", "  ")
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return fmt.Errorf("invalid --as %q: use markdown, html, json or yaml", exportAs)
	}
	if err != nil {
		return fmt.Errorf("export report %s: %w", report.ID, err)
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(exportOutput, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	cmd.Printf("Exported report %s to %s\n", report.ID, exportOutput)
	return nil
}

func runReportDelete(cmd *cobra.Command, args []string) error {
	if err := requireReports(); err != nil {
		return err
	}
	if err := reportService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted report %s\n", args[0])
	return nil
}
