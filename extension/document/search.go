// search.go implements the "docver search" command.

package document

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/search"
	"github.com/spf13/cobra"
)

func (e *Extension) newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search <query>",
		Short: "Search metadata and change descriptions",
		Long: `Find documents whose metadata or any version's change description contains
the query. Matching is a case-sensitive substring test.

  docver search published
  docver search -l "Annual Report"   # show which fields matched`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSearch,
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Show matching fields")
	return c
}

func (e *Extension) runSearch(c *cobra.Command, args []string) error {
	long, _ := c.Flags().GetBool(extension.FlagLong)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := search.Run(c.Context(), w, e.svc, args[0], search.Options{Long: long})

	log.Event("document:search", "search").
		Author(cmd.Author()).
		Detail("query", args[0]).
		Detail("matches", len(result.Documents)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("search %q: %w", args[0], err))
	}
	return cmd.PrintJSON(result.Documents)
}
