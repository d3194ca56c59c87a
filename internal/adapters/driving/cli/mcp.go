package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docfuse/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docfuse/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the tools fusion_compare, fusion_merge, fusion_curate and
fusion_dedupe, and stored reports as docfuse://reports resources.

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve streamable HTTP instead, at / and /mcp, with GET /healthz for probes.

Examples:
  # Stdio mode (default)
  docfuse mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docfuse mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if err := requireFusion(); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Fusion:  fusionService,
		Reports: reportService,
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	// stdout carries the protocol; keep logs on stderr.
	logger.Debug("MCP server running on stdio")
	return server.Run(cmd.Context())
}
