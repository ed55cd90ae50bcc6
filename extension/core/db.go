// db.go implements the "docver db" command, which lists the databases of a
// repository. Each database has its own uploads directory.

package core

import (
	"fmt"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db",
		Short: "List databases",
		Long: `List the databases in the repository and their uploads directories.

  docver db                 # nearest .docver above the working directory
  docver db --dir /srv/docs # a specific repository

Select one with --db <name> on any other command.`,
		Args: cobra.NoArgs,
		RunE: runDB,
	}
}

func runDB(_ *cobra.Command, _ []string) error {
	dbs, err := repo.ListDBs(cmd.Dir())

	log.Event("core:db", "list").
		Author(cmd.Author()).
		Detail("dir", cmd.Dir()).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("list databases: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(dbs)
	}
	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	for _, db := range dbs {
		name := db.Name
		if name == "" {
			name = "(default)"
		}
		fmt.Fprintf(cmd.Out(), "%-12s  %s  %s/\n", name, db.File, db.Uploads)
	}
	return nil
}
