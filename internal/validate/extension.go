package validate

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Allowed upload extensions.
const (
	ExtPDF  = "pdf"
	ExtHTML = "html"
)

// Extension checks that filename ends in one of the allowed extensions
// (case-insensitive) and returns the lower-cased extension.
func Extension(filename string, allowed ...string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrExtension, filename, strings.Join(allowed, ", "))
	}
	return ext, nil
}
