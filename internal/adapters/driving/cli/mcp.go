package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/carsearch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Build the index and expose it to AI assistants over the Model Context Protocol.

The server offers one tool, "retrieve", which takes a question and an
optional k and returns the matching car descriptions with their source
tags, plus the resource carsearch://index describing the loaded index.

By default the server communicates over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  carsearch mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  carsearch mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "carsearch": {
        "command": "/path/to/carsearch",
        "args": ["mcp", "serve", "--csv", "/path/to/cars_dataset.csv"]
      }
    }
  }`,
	Args: cobra.NoArgs,
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

	p, settings, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval: p.Retrieval,
		Index:     p.Index,
		DefaultK:  settings.K,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
