// Package guide provides the embedded help pages shown by "docver guide"
// and the docver_guide MCP tool.
package guide

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var files embed.FS

// ErrUnknownTopic is returned for a topic with no page.
var ErrUnknownTopic = errors.New("unknown guide topic")

// Get returns the content of a guide page by name. An empty name returns
// the overview page.
func Get(name string) (string, error) {
	if name == "" {
		name = "guide"
	}
	data, err := files.ReadFile(name + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTopic, name)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List returns the available topic names, excluding the overview.
func List() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name != "guide" {
			names = append(names, name)
		}
	}
	return names, nil
}
