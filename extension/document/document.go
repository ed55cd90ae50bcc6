// Package document provides the document extension.
// Registers commands: add, upload, ls, cat, history, search, grep, rm,
// diff, revert.

package document

import (
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the document extension.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Storeless     = (*Extension)(nil)
)

// Name returns "document".
func (e *Extension) Name() string { return "document" }

// Init connects to the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the document commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newAddCmd(),
		e.newUploadCmd(),
		e.newLsCmd(),
		e.newCatCmd(),
		e.newHistoryCmd(),
		e.newSearchCmd(),
		e.newGrepCmd(),
		e.newRmCmd(),
		e.newDiffCmd(),
		e.newRevertCmd(),
	}
}

// NoStoreCommands returns "upload", which talks to a server rather than
// the local repository.
func (e *Extension) NoStoreCommands() []string {
	return []string{"upload"}
}
