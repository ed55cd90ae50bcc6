// revert.go implements the "docver revert" command.
//
// Revert is forward-moving: the files of the old version are recorded again
// as a new version, so newer versions and their votes stay in the ledger.

package document

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/revert"
	"github.com/spf13/cobra"
)

func (e *Extension) newRevertCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "revert <doc_id> <version>",
		Short: "Revert a document to a previous version",
		Long: `Revert a document to a previous version by creating a new version with the old files.

History is preserved: no version is deleted.

  docver revert report 2
  docver revert report 2 -m "back to the approved wording"`,
		Args: cobra.ExactArgs(2),
		RunE: e.runRevert,
	}
	c.Flags().StringP(extension.FlagChange, "m", "", "Change description (default \"Revert to vN\")")
	return c
}

func (e *Extension) runRevert(c *cobra.Command, args []string) error {
	docID := args[0]
	version, err := strconv.Atoi(args[1])
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("invalid version %q: must be a number", args[1]))
	}
	if version < 1 {
		return cmd.PrintJSONError(fmt.Errorf("version must be >= 1, got %d", version))
	}

	var opts revert.Options
	opts.Message, _ = c.Flags().GetString(extension.FlagChange)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := revert.Run(c.Context(), w, e.svc, docID, version, opts)

	log.Event("document:revert", "revert").
		Author(cmd.Author()).
		DocID(docID).
		Version(version).
		ResultVersion(result.NewVersion).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("revert %s: %w", docID, err))
	}
	return cmd.PrintJSON(result)
}
