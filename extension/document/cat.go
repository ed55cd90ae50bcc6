// cat.go implements the "docver cat" command, which prints a stored file.

package document

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/cat"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newCatCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cat <doc_id>",
		Short: "Print a rendition or the PDF of a version",
		Long: `Print the first HTML rendition of the latest version, or another file.

  docver cat report                 # first rendition, latest version
  docver cat report -v 2 -r 2       # second rendition of version 2
  docver cat report --text          # visible text only
  docver cat report --pdf > r.pdf   # the primary file`,
		Args: cobra.ExactArgs(1),
		RunE: e.runCat,
	}
	c.Flags().IntP(extension.FlagVersion, "v", 0, "Version (default latest)")
	c.Flags().IntP(extension.FlagRendition, "r", 1, "HTML rendition number")
	c.Flags().Bool(extension.FlagPDF, false, "Print the primary PDF")
	c.Flags().Bool(extension.FlagText, false, "Strip markup")
	c.MarkFlagsMutuallyExclusive(extension.FlagPDF, extension.FlagText)
	return c
}

func (e *Extension) runCat(c *cobra.Command, args []string) error {
	var opts cat.Options
	opts.Version, _ = c.Flags().GetInt(extension.FlagVersion)
	opts.Rendition, _ = c.Flags().GetInt(extension.FlagRendition)
	opts.PDF, _ = c.Flags().GetBool(extension.FlagPDF)
	opts.Text, _ = c.Flags().GetBool(extension.FlagText)
	docID := args[0]

	if opts.PDF && cmd.JSON() {
		return cmd.PrintJSONError(fmt.Errorf("cat: --pdf cannot be combined with -o json"))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := cat.Run(c.Context(), w, e.svc, docID, opts)

	log.Event("document:cat", "read").
		Author(cmd.Author()).
		DocID(docID).
		Version(result.Version).
		Detail("file", result.Path).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("cat %s: %w", docID, err))
	}
	return cmd.PrintJSON(result)
}
