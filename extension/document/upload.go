// upload.go implements the "docver upload" command, which sends a version
// to a running docver server.

package document

import (
	"fmt"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/client"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newUploadCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "upload <pdf>",
		Short: "Upload a version to a docver server",
		Long: `Upload a PDF and its HTML renditions to a docver server over HTTP.

  docver upload report.pdf --metadata-file report.json --html report.html

The metadata file must be a JSON object with a doc_id. The change
description is -m, else the metadata's change_description, else
"` + client.DefaultChangeDescription + `".

The server is --server, else client.server from config
(default http://localhost:5000).`,
		Args: cobra.ExactArgs(1),
		RunE: e.runUpload,
	}
	c.Flags().String(extension.FlagServer, "", "Server URL")
	c.Flags().String(extension.FlagMetadataFile, "", "Metadata JSON file (must contain doc_id)")
	c.Flags().StringArray(extension.FlagHTML, nil, "HTML rendition (repeatable)")
	c.Flags().StringP(extension.FlagChange, "m", "", "Change description")
	_ = c.MarkFlagRequired(extension.FlagMetadataFile)
	return c
}

func (e *Extension) runUpload(c *cobra.Command, args []string) error {
	server, _ := c.Flags().GetString(extension.FlagServer)
	metaFile, _ := c.Flags().GetString(extension.FlagMetadataFile)
	htmlPaths, _ := c.Flags().GetStringArray(extension.FlagHTML)
	change, _ := c.Flags().GetString(extension.FlagChange)

	// upload is storeless, so config is loaded here.
	if server == "" {
		cfg, err := config.Load()
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
		}
		server = cfg.ServerURL()
	}

	res, err := client.New(server).Upload(c.Context(), client.Options{
		PDF:               args[0],
		HTML:              htmlPaths,
		MetadataFile:      metaFile,
		ChangeDescription: change,
	})

	log.Event("document:upload", "upload").
		Author(cmd.Author()).
		DocID(res.DocID).
		ResultVersion(res.Version).
		Detail("server", server).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("upload: %w", err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "%s %s v%d\n", res.Message, res.DocID, res.Version)
	}
	return cmd.PrintJSON(res)
}
