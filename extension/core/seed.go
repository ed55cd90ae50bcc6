// seed.go implements the "docver seed" command.

package core

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration documents",
		Long: `Uploads two demonstration documents:

  doc-a  one version with two HTML renditions
  doc-b  two versions; the second sets status "published"

Fails if either exists. Use --force to delete and re-create them.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
}

func runSeed(c *cobra.Command, _ []string) error {
	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := seed.Run(c.Context(), w, cmd.Context().Service(), seed.Options{Force: cmd.Force()})

	log.Event("core:seed", "seed").
		Author(cmd.Author()).
		Detail("force", cmd.Force()).
		Detail("uploads", len(result.Uploads)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("seed: %w", err))
	}
	return cmd.PrintJSON(result)
}
