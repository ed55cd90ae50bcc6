// export.go implements "docver export" and "docver import", which move
// documents between repositories through a directory of files and
// manifests.

package core

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/exporter"
	"github.com/jpl-au/docver/internal/importer"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir> [doc_id]",
		Short: "Export documents to a directory",
		Long: `Copy every version's files into <dir>/<doc_id>/ together with a
manifest.json describing versions, metadata and votes.

  docver export ./backup            # all documents
  docver export ./backup report     # one document
  docver export ./backup --force    # overwrite an earlier export`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runExport,
	}
}

func runExport(c *cobra.Command, args []string) error {
	opts := exporter.Options{Force: cmd.Force()}
	if len(args) == 2 {
		opts.DocID = args[1]
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := exporter.Run(c.Context(), w, cmd.Context().Service(), args[0], opts)

	log.Event("core:export", "export").
		Author(cmd.Author()).
		DocID(opts.DocID).
		Detail("dst", args[0]).
		Detail("documents", result.Documents).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export: %w", err))
	}
	return cmd.PrintJSON(result)
}

func newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import documents written by export",
		Long: `Upload every version found under <dir> through the normal ingest path.
Imported versions are numbered after any the repository already holds.

  docver import ./backup
  docver import ./backup --votes     # recast exported votes
  docver import ./backup --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be imported")
	c.Flags().Bool(extension.FlagVotes, false, "Recast exported votes")
	return c
}

func runImport(c *cobra.Command, args []string) error {
	var opts importer.Options
	opts.DryRun, _ = c.Flags().GetBool(extension.FlagDryRun)
	opts.Votes, _ = c.Flags().GetBool(extension.FlagVotes)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := importer.Run(c.Context(), w, cmd.Context().Service(), args[0], opts)

	log.Event("core:import", "import").
		Author(cmd.Author()).
		Detail("src", args[0]).
		Detail("dry_run", opts.DryRun).
		Detail("versions", result.Versions).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import: %w", err))
	}
	return cmd.PrintJSON(result)
}
