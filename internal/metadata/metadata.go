// Package metadata provides the free-form key/value map attached to every
// document. Uploads carry a patch that is merged into the stored map one key
// at a time; keys absent from the patch keep their stored values.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrNotObject is returned when metadata is valid JSON but not an object.
var ErrNotObject = errors.New("metadata must be a JSON object")

// Metadata is a document's metadata object.
type Metadata map[string]any

// Merge returns a new map holding every key of old, overwritten or extended
// by the keys of patch. Neither argument is modified.
func Merge(old, patch Metadata) Metadata {
	out := make(Metadata, len(old)+len(patch))
	maps.Copy(out, old)
	maps.Copy(out, patch)
	return out
}

// Parse decodes a JSON object. Blank input yields an empty map.
func Parse(data []byte) (Metadata, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Metadata{}, nil
	}
	if data[0] != '{' {
		return nil, ErrNotObject
	}
	var m Metadata
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse metadata: trailing data after object")
	}
	if m == nil {
		m = Metadata{}
	}
	return m, nil
}

// Encode serialises m with sorted keys in the form stored in the database
// and matched by search: `{"a": 1, "b": "R&D"}`. Unlike json.Marshal, '&',
// '<' and '>' are kept literal. A nil map encodes as "{}".
func Encode(m Metadata) (string, error) {
	if m == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(m)); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return spaced(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// spaced inserts a space after every ',' and ':' outside string literals of
// compact JSON.
func spaced(b []byte) string {
	var (
		sb       strings.Builder
		inString bool
		escaped  bool
	)
	sb.Grow(len(b) + len(b)/4)
	for _, c := range b {
		sb.WriteByte(c)
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ',' || c == ':'):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// DocID returns the "doc_id" entry when it is a non-empty string.
func (m Metadata) DocID() (string, bool) {
	s, ok := m["doc_id"].(string)
	return s, ok && s != ""
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	return Merge(m, nil)
}
