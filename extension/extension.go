// Package extension provides the plugin architecture for docver. Extensions
// group related functionality (commands, MCP tools, event handlers) and
// register at init time.
package extension

import "github.com/spf13/cobra"

// Extension defines the contract for docver extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions can perform setup once the service is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is an optional interface for extensions with commands that
// don't require an open repository. Commands returned by NoStoreCommands()
// will not trigger service initialisation in PersistentPreRunE.
type Storeless interface {
	NoStoreCommands() []string
}

// Closer extensions release resources (connections, clients) when the
// command finishes.
type Closer interface {
	Extension
	Close() error
}
