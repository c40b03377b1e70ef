// ABOUTME: MCP server command implementation for vectorscope.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/vectorscope/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to place
queries, move the view and read rendered frames of the explorer.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctrl, renderer, err := buildExplorer()
	if err != nil {
		return err
	}

	server, err := mcppkg.NewServer(ctrl,
		mcppkg.WithRenderer(renderer),
		mcppkg.WithLogger(globalLogger),
		mcppkg.WithSimilarDefaults(globalConfig.Query.TopN, globalConfig.Query.MinSimilarity),
	)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
