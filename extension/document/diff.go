// diff.go implements the "docver diff" command, which compares the HTML
// renditions of two versions.

package document

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/diff"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <doc_id> [v1 v2]",
		Short: "Compare the HTML renditions of two versions",
		Long: `Compare the HTML renditions of two versions, pairing them by attachment order.

  docver diff report           # previous version against latest
  docver diff report 1 3       # version 1 against version 3
  docver diff report -v 1:3    # same
  docver diff report --text    # compare visible text, ignoring markup`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <doc_id> or <doc_id> <v1> <v2>")
			}
			return nil
		},
		RunE: e.runDiff,
	}
	c.Flags().StringP(extension.FlagVersions, "v", "", "Version range (e.g., 1:3)")
	c.Flags().Bool(extension.FlagText, false, "Strip markup before comparing")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	verRange, _ := c.Flags().GetString(extension.FlagVersions)
	text, _ := c.Flags().GetBool(extension.FlagText)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	docID := args[0]
	ctx := c.Context()

	opts := diff.Options{Text: text}
	var err error
	switch {
	case len(args) == 3:
		opts.Version1, opts.Version2, err = diff.ParseVersionRange(args[1] + ":" + args[2])
	case verRange != "":
		opts.Version1, opts.Version2, err = diff.ParseVersionRange(verRange)
	default:
		doc, derr := e.svc.Document(ctx, docID)
		if derr != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff %s: %w", docID, derr))
		}
		if len(doc.Versions) < 2 {
			return cmd.PrintJSONError(fmt.Errorf("diff %s: only one version", docID))
		}
		opts.Version1, opts.Version2 = doc.Versions[1].Version, doc.Versions[0].Version
	}
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	colour := !raw && term.IsTerminal(int(os.Stdout.Fd()))

	results, err := diff.Run(ctx, w, e.svc, docID, opts, colour)

	log.Event("document:diff", "diff").
		Author(cmd.Author()).
		DocID(docID).
		Detail("range", strconv.Itoa(opts.Version1)+":"+strconv.Itoa(opts.Version2)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %s: %w", docID, err))
	}
	if len(results) == 0 && !cmd.JSON() {
		fmt.Fprintln(cmd.Out(), "No HTML renditions to compare")
	}
	return cmd.PrintJSON(results)
}
