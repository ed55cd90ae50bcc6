// guide.go implements the "docver guide" command.
//
// Guides are embedded in the binary. Terminal output is rendered with
// glamour; pipes get raw markdown.

package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the docver usage guide",
		Long: `Outputs the docver guide.

  docver guide          # overview
  docver guide upload   # uploading versions
  docver guide server   # HTTP API`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			topics, _ := guide.List()
			return topics, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runGuide,
	}
	c.Flags().Bool(extension.FlagRaw, false, "Print raw markdown")
	return c
}

func runGuide(c *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	content, err := guide.Get(name)
	if errors.Is(err, guide.ErrUnknownTopic) {
		available, listErr := guide.List()
		if listErr != nil {
			return listErr
		}
		return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
	}
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"topic": name, "content": content})
	}

	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, err := glamour.Render(content, "dark")
		if err == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}

	fmt.Fprint(cmd.Out(), content)
	return nil
}
