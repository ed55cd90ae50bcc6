// errors.go defines sentinel errors for validation failures. Detailed
// messages wrap these with fmt.Errorf; check with errors.Is.

package validate

import "errors"

var (
	ErrInvalidDocID    = errors.New("invalid doc_id")
	ErrDocIDTooLong    = errors.New("doc_id too long")
	ErrExtension       = errors.New("file type not allowed")
	ErrInvalidVersion  = errors.New("invalid version")
	ErrInvalidVoteType = errors.New("invalid vote type")
)
