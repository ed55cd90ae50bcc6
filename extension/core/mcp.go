// mcp.go implements the "docver mcp" command, the MCP server over stdio.
//
// mcp is storeless: it opens the repository itself so that it can start
// before one exists and offer docver_init.

package core

import (
	"fmt"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Use --db to serve a specific database:
  docver mcp --db drafts

See 'docver guide mcp' for the tool list.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}
}

func runMCP(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	return mcp.Serve(cmd.DB(), cmd.Dir(), cfg)
}
