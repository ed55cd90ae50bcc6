// Package core provides the core extension for docver.
// It registers commands: init, config, serve, mcp, seed, check, vacuum,
// export, import, db, guide, version.
package core

import (
	"github.com/jpl-au/docver/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the repository and server management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newMCPCmd(),
		newSeedCmd(),
		newCheckCmd(),
		newVacuumCmd(),
		newExportCmd(),
		newImportCmd(),
		newDBCmd(),
		newGuideCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil. The core MCP tools live in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns commands that manage their own service lifecycle.
// mcp: supports docver_init, so it must start without a repository.
// db: lists database files without opening them.
// version: build info only.
func (e *Extension) NoStoreCommands() []string {
	return []string{"mcp", "db", "version"}
}
