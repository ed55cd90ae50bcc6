// init.go implements the "docver init" command.
//
// Init creates the database and uploads directory. It does not create
// config; that is managed separately via "docver config".

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a new docver repository",
		Long: `Creates .docver/docver.db and .docver/uploads/ in the current directory.

Use --db to create additional databases:
  docver init --db drafts    # creates .docver/docver-drafts.db and uploads-drafts/

Use --dir to create in a different directory:
  docver init --dir /srv/docs

Use --force to recreate an existing database. Uploaded files are kept.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(_ *cobra.Command, _ []string) error {
	db, dir := cmd.DB(), cmd.Dir()

	p, err := document.Init(cmd.Force(), db, dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"db": p.DB, "uploads": p.Uploads})
	}
	fmt.Fprintf(cmd.Out(), "Initialised docver repository in %s\n", filepath.Join(p.Root, filepath.Base(p.DB)))
	return nil
}
