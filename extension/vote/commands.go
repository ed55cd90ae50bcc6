// commands.go implements "docver vote" and "docver votes".

package vote

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/votes"
	"github.com/spf13/cobra"
)

func (e *Extension) newVoteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vote <doc_id> <version> <good|bad>",
		Short: "Vote on a document version",
		Long: `Record a vote against a version. Only "good" and "bad" are tallied; other
values are stored as given.

  docver vote report 2 good
  docver vote report 2 bad --voter reviewer@example.com`,
		Args: cobra.ExactArgs(3),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 2 {
				return []string{"good", "bad"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: e.runVote,
	}
	c.Flags().String(extension.FlagVoter, "", "Voter identifier (default cli:$USER)")
	return c
}

// defaultVoter identifies CLI votes, which have no client address.
func defaultVoter() string {
	if u := os.Getenv("USER"); u != "" {
		return "cli:" + u
	}
	return "cli"
}

func (e *Extension) runVote(c *cobra.Command, args []string) error {
	docID, voteType := args[0], args[2]
	version, err := strconv.Atoi(args[1])
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("invalid version %q", args[1]))
	}
	voter, _ := c.Flags().GetString(extension.FlagVoter)
	if voter == "" {
		voter = defaultVoter()
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	r, err := votes.Cast(c.Context(), w, e.svc, docID, version, voteType, voter)

	log.Event("vote:vote", "vote").
		Author(cmd.Author()).
		DocID(docID).
		Version(version).
		Detail("type", voteType).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("vote %s v%d: %w", docID, version, err))
	}
	return cmd.PrintJSON(r)
}

func (e *Extension) newVotesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "votes [doc_id]",
		Short: "Show vote tallies",
		Long: `Show good/bad tallies per version, or every vote with --all.

  docver votes
  docver votes report
  docver votes --all --since 7d   # votes cast in the last week (d, w, m)`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runVotes,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "List every vote")
	c.Flags().String(extension.FlagSince, "", "Only votes newer than this (e.g., 7d, 2w, 1m)")
	return c
}

func (e *Extension) runVotes(c *cobra.Command, args []string) error {
	opts := votes.Options{}
	opts.All, _ = c.Flags().GetBool(extension.FlagAll)
	opts.Since, _ = c.Flags().GetString(extension.FlagSince)
	if len(args) > 0 {
		opts.DocID = args[0]
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := votes.Run(c.Context(), w, e.svc, opts)

	log.Event("vote:votes", "list").
		Author(cmd.Author()).
		DocID(opts.DocID).
		Detail("all", opts.All).
		Detail("since", opts.Since).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("votes: %w", err))
	}
	if opts.All {
		return cmd.PrintJSON(result.Votes)
	}
	return cmd.PrintJSON(result.Counts)
}
