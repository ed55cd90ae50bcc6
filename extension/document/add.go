// add.go implements the "docver add" command, which records a new version
// in the local repository.

package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/docver/cmd"
	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
	"github.com/spf13/cobra"
)

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <pdf>",
		Short: "Add a version to the local repository",
		Long: `Store a PDF and its HTML renditions as the next version of a document.

  docver add report.pdf --doc-id report --html report.html -m "Fix typos"
  docver add report.pdf --metadata '{"doc_id":"report","status":"draft"}'
  docver add report.pdf --metadata-file report.json

The doc_id comes from --doc-id, otherwise from the metadata's doc_id.
Metadata is merged into the document's existing metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runAdd,
	}
	c.Flags().String(extension.FlagDocID, "", "Document identifier")
	c.Flags().String(extension.FlagMetadata, "", "Metadata JSON object")
	c.Flags().String(extension.FlagMetadataFile, "", "Read metadata from a JSON file")
	c.Flags().StringArray(extension.FlagHTML, nil, "HTML rendition (repeatable)")
	c.Flags().StringP(extension.FlagChange, "m", "", "Change description")
	c.MarkFlagsMutuallyExclusive(extension.FlagMetadata, extension.FlagMetadataFile)
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	docID, _ := c.Flags().GetString(extension.FlagDocID)
	inline, _ := c.Flags().GetString(extension.FlagMetadata)
	metaFile, _ := c.Flags().GetString(extension.FlagMetadataFile)
	htmlPaths, _ := c.Flags().GetStringArray(extension.FlagHTML)
	change, _ := c.Flags().GetString(extension.FlagChange)

	var meta metadata.Metadata
	var err error
	switch {
	case inline != "":
		meta, err = metadata.Parse([]byte(inline))
	case metaFile != "":
		var data []byte
		if data, err = os.ReadFile(metaFile); err == nil {
			meta, err = metadata.Parse(data)
		}
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("metadata: %w", err))
	}
	if change == "" {
		if d, ok := meta["change_description"].(string); ok {
			change = d
		}
	}

	in := service.UploadInput{
		DocID:             docID,
		Metadata:          meta,
		ChangeDescription: change,
	}

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	open := func(p string) (service.File, error) {
		f, err := os.Open(p)
		if err != nil {
			return service.File{}, err
		}
		files = append(files, f)
		return service.File{Name: filepath.Base(p), Body: f}, nil
	}

	if in.File, err = open(args[0]); err != nil {
		return cmd.PrintJSONError(err)
	}
	for _, p := range htmlPaths {
		f, err := open(p)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		in.HTML = append(in.HTML, f)
	}

	res, err := e.svc.Upload(c.Context(), in)

	log.Event("document:add", "add").
		Author(cmd.Author()).
		DocID(res.DocID).
		ResultVersion(res.Version).
		Detail("html", len(htmlPaths)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("add: %w", err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Added %s v%d (%d html)\n", res.DocID, res.Version, len(res.HTMLPaths))
	}
	return cmd.PrintJSON(res)
}
