package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxDocID is the longest accepted doc_id in bytes.
const MaxDocID = 256

// DocID validates an external document identifier.
//
//   - Empty or blank ids rejected
//   - "/" rejected (the id is a single URL path segment)
//   - Control characters, including null bytes, rejected
func DocID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDocID)
	}
	if len(id) > MaxDocID {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocIDTooLong, len(id), MaxDocID)
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: contains '/'", ErrInvalidDocID)
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: control character", ErrInvalidDocID)
	}
	return nil
}

// Version validates a version number.
func Version(v int) error {
	if v < 1 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidVersion, v)
	}
	return nil
}

// VoteType validates a vote type. Any non-empty value is stored; only
// "good" and "bad" are counted.
func VoteType(t string) error {
	if strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVoteType)
	}
	if strings.ContainsRune(t, 0) {
		return fmt.Errorf("%w: null byte", ErrInvalidVoteType)
	}
	return nil
}
