// Package vote provides the vote extension: the vote and votes commands and
// the docver_vote, docver_vote_counts and docver_votes MCP tools.
package vote

import (
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the vote extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "vote".
func (e *Extension) Name() string { return "vote" }

// Init connects to the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the vote commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newVoteCmd(),
		e.newVotesCmd(),
	}
}
