// check.go implements the "docver check" command, which compares database
// rows with the uploads directory.

package core

import (
	"fmt"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/internal/format"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report missing and unreferenced files",
		Long: `Prints row counts, then lists recorded files missing from the uploads
directory and uploaded files no version references.

Exits non-zero when any recorded file is missing.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(c *cobra.Command, _ []string) error {
	report, err := cmd.Context().Service().Check(c.Context())

	log.Event("core:check", "check").
		Author(cmd.Author()).
		Detail("missing", len(report.Missing)).
		Detail("unreferenced", len(report.Unreferenced)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("check: %w", err))
	}

	if cmd.JSON() {
		if err := cmd.PrintJSON(report); err != nil {
			return err
		}
	} else if err := format.Check(cmd.Out(), report); err != nil {
		return err
	}

	if len(report.Missing) > 0 {
		c.SilenceUsage = true
		c.SilenceErrors = cmd.JSON()
		return fmt.Errorf("%d recorded file(s) missing", len(report.Missing))
	}
	return nil
}
