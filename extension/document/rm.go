// rm.go implements the "docver rm" command.

package document

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/rm"
	"github.com/spf13/cobra"
)

func (e *Extension) newRmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rm <doc_id> [version]",
		Short: "Delete a document version",
		Long: `Permanently delete a version with its renditions, votes and files.
Deleting the last version removes the document.

  docver rm report 3
  docver rm report --all   # every version, asks first unless --force`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runRm,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Delete every version")
	return c
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	all, _ := c.Flags().GetBool(extension.FlagAll)
	docID := args[0]

	version := 0
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("invalid version %q", args[1]))
		}
		version = v
	} else if !all {
		return cmd.PrintJSONError(fmt.Errorf("rm requires a version or --all"))
	}

	if all && !cmd.Confirm(fmt.Sprintf("Delete every version of %s?", docID)) {
		fmt.Fprintln(cmd.Out(), "Cancelled")
		return nil
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := rm.Run(c.Context(), w, e.svc, docID, version, rm.Options{All: all})

	log.Event("document:rm", "delete").
		Author(cmd.Author()).
		DocID(docID).
		Version(version).
		Detail("deleted", result.Versions).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rm %s: %w", docID, err))
	}
	return cmd.PrintJSON(result)
}
