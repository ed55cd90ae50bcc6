// grep.go implements the "docver grep" command for regex searches over
// rendition content.
//
// search (search.go) matches metadata and change descriptions in the
// database; grep reads the HTML renditions themselves.

package document

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/grep"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newGrepCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "grep <pattern> [doc_id|glob]",
		Short: "Search rendition content using regex",
		Long: `Search the HTML renditions of documents using regular expressions, like Unix grep.
Matches run against the visible text unless --markup is given.

  docver grep "revenue"              # latest version of every document
  docver grep -i "q[1-4] results" r  # case-insensitive, one document
  docver grep -A "draft"             # every version
  docver grep -l "class=\"toc\"" --markup

For metadata and change descriptions, use 'docver search' instead.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runGrep,
	}
	c.Flags().BoolP(extension.FlagIDs, "l", false, "Only output doc_ids of matching documents")
	c.Flags().BoolP(extension.FlagIgnoreCase, "i", false, "Ignore case distinctions")
	c.Flags().BoolP(extension.FlagInvertMatch, "v", false, "Select non-matching lines")
	c.Flags().BoolP(extension.FlagCount, "c", false, "Only print count of matches per rendition")
	c.Flags().IntP(extension.FlagContext, "C", 0, "Print N lines of context around matches")
	c.Flags().BoolP(extension.FlagAll, "A", false, "Search every version, not just the latest")
	c.Flags().Bool(extension.FlagMarkup, false, "Match the raw HTML")
	return c
}

func (e *Extension) runGrep(c *cobra.Command, args []string) error {
	pattern := args[0]
	var opts grep.Options
	if len(args) > 1 {
		opts.DocID = args[1]
	}
	opts.IDsOnly, _ = c.Flags().GetBool(extension.FlagIDs)
	opts.IgnoreCase, _ = c.Flags().GetBool(extension.FlagIgnoreCase)
	opts.Invert, _ = c.Flags().GetBool(extension.FlagInvertMatch)
	opts.CountOnly, _ = c.Flags().GetBool(extension.FlagCount)
	opts.Context, _ = c.Flags().GetInt(extension.FlagContext)
	opts.AllVersions, _ = c.Flags().GetBool(extension.FlagAll)
	opts.Markup, _ = c.Flags().GetBool(extension.FlagMarkup)

	if opts.Context < 0 {
		return cmd.PrintJSONError(fmt.Errorf("context lines (-C) must be >= 0, got %d", opts.Context))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := grep.Run(c.Context(), w, e.svc, pattern, opts)

	log.Event("document:grep", "search").
		Author(cmd.Author()).
		DocID(opts.DocID).
		Detail("pattern", pattern).
		Detail("count", len(result.Hits)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("grep %q: %w", pattern, err))
	}
	return cmd.PrintJSON(result)
}
