// Package glob matches doc_ids against shell patterns.
//
// doc_ids never contain '/', so a pattern is matched against the whole
// identifier with path.Match semantics: '*', '?' and character classes.
package glob

import (
	"fmt"
	"path"
	"strings"

	"github.com/jpl-au/docver/internal/store"
)

// IsPattern reports whether s contains glob metacharacters.
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Match reports whether docID matches pattern.
// Returns an error if the pattern is malformed.
func Match(pattern, docID string) (bool, error) {
	m, err := path.Match(pattern, docID)
	if err != nil {
		return false, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return m, nil
}

// Filter returns the documents whose doc_id matches pattern, keeping order.
func Filter(docs []store.DocumentView, pattern string) ([]store.DocumentView, error) {
	out := []store.DocumentView{}
	for _, d := range docs {
		m, err := Match(pattern, d.DocID)
		if err != nil {
			return nil, err
		}
		if m {
			out = append(out, d)
		}
	}
	return out, nil
}
