// vacuum.go implements the "docver vacuum" command, which removes uploads
// no version references and compacts the database.

package core

import (
	"fmt"
	"io"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/vacuum"
	"github.com/spf13/cobra"
)

func newVacuumCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vacuum",
		Short: "Remove unreferenced uploads and compact the database",
		Long: `Remove files in the uploads directory that no version or rendition
references, then compact the database.

This is irreversible. Run it while no uploads are in progress.
Use --dry-run to preview and --force to skip confirmation.`,
		Args: cobra.NoArgs,
		RunE: runVacuum,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be removed")
	return c
}

func runVacuum(c *cobra.Command, _ []string) error {
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)
	svc := cmd.Context().Service()

	if !dryRun && !cmd.Confirm("Permanently remove unreferenced uploads? This cannot be undone.") {
		fmt.Fprintln(cmd.Out(), "Cancelled")
		return nil
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := vacuum.Run(c.Context(), w, svc, vacuum.Options{DryRun: dryRun})

	log.Event("core:vacuum", "vacuum").
		Author(cmd.Author()).
		Detail("dry_run", dryRun).
		Detail("count", result.Removed).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("vacuum: %w", err))
	}
	return cmd.PrintJSON(result)
}
