// history.go implements the "docver history" command.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/history"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <doc_id>",
		Short: "Show the versions of a document with their votes",
		Long: `List every version of a document, newest first, with its rendition count,
good/bad vote tally and change description.

  docver history report
  docver history report -n 3 -d   # last three versions with diffs`,
		Args: cobra.ExactArgs(1),
		RunE: e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum versions to show")
	c.Flags().BoolP(extension.FlagDiff, "d", false, "Show diffs between versions")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, args []string) error {
	var opts history.Options
	opts.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	opts.ShowDiff, _ = c.Flags().GetBool(extension.FlagDiff)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	opts.Colour = !raw && term.IsTerminal(int(os.Stdout.Fd()))
	docID := args[0]

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := history.Run(c.Context(), w, e.svc, docID, opts)

	log.Event("document:history", "history").
		Author(cmd.Author()).
		DocID(docID).
		Detail("versions", len(result.Versions)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history %s: %w", docID, err))
	}
	return cmd.PrintJSON(result)
}
