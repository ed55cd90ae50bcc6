// ls.go implements the "docver ls" command.
//
// Terminal output renders document trees as Markdown with glamour unless
// --raw, -l or --tree asks for plain text.

package document

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/glob"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/ls"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [doc_id|glob]",
		Short: "List documents",
		Long: `List documents with their versions and renditions.

  docver ls            # one line per document
  docver ls -l         # table with counts, age and status
  docver ls -t         # versions and renditions as a tree
  docver ls report     # one document as a tree
  docver ls 'report-*' # documents whose doc_id matches a glob

Files missing from the uploads directory are marked [missing].`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLs,
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format")
	c.Flags().BoolP(extension.FlagTree, "t", false, "Show versions and renditions")
	c.Flags().Bool(extension.FlagRaw, false, "Plain text even on a terminal")
	c.Flags().StringP(extension.FlagSort, "s", "", "Sort by: name, time")
	c.Flags().BoolP(extension.FlagReverse, "R", false, "Reverse sort order")
	return c
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	opts := ls.Options{}
	if len(args) > 0 {
		opts.DocID = args[0]
	}
	opts.Long, _ = c.Flags().GetBool(extension.FlagLong)
	opts.Tree, _ = c.Flags().GetBool(extension.FlagTree)
	opts.Reverse, _ = c.Flags().GetBool(extension.FlagReverse)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	sortBy, _ := c.Flags().GetString(extension.FlagSort)
	if sortBy != "" && sortBy != "name" && sortBy != "time" {
		return cmd.PrintJSONError(fmt.Errorf("invalid sort field %q: must be 'name' or 'time'", sortBy))
	}
	opts.Sort = ls.SortField(sortBy)

	tty := !cmd.JSON() && !raw && !opts.Long && !opts.Tree && term.IsTerminal(int(os.Stdout.Fd()))
	opts.Markdown = tty

	var buf bytes.Buffer
	var w io.Writer = cmd.Out()
	switch {
	case cmd.JSON():
		w = io.Discard
	case tty:
		w = &buf
	}

	result, err := ls.Run(c.Context(), w, e.svc, opts)

	log.Event("document:ls", "list").
		Author(cmd.Author()).
		DocID(opts.DocID).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}

	if tty {
		rendered, err := glamour.Render(buf.String(), "dark")
		if err != nil {
			rendered = buf.String()
		}
		fmt.Fprint(cmd.Out(), rendered)
	}
	if opts.DocID != "" && !glob.IsPattern(opts.DocID) && len(result.Documents) == 1 {
		return cmd.PrintJSON(result.Documents[0])
	}
	return cmd.PrintJSON(result.Documents)
}
