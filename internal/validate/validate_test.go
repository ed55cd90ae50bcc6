package validate_test

import (
	"strings"
	"testing"

	"github.com/jpl-au/docver/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr error
	}{
		{"doc-a", nil},
		{"Report 2024 (final)", nil},
		{"", validate.ErrInvalidDocID},
		{"   ", validate.ErrInvalidDocID},
		{"a/b", validate.ErrInvalidDocID},
		{"a\x00b", validate.ErrInvalidDocID},
		{"a\nb", validate.ErrInvalidDocID},
		{strings.Repeat("x", validate.MaxDocID+1), validate.ErrDocIDTooLong},
	}
	for _, tt := range tests {
		err := validate.DocID(tt.id)
		if tt.wantErr == nil {
			assert.NoError(t, err, "DocID(%q)", tt.id)
			continue
		}
		assert.ErrorIs(t, err, tt.wantErr, "DocID(%q)", tt.id)
	}
}

func TestExtension(t *testing.T) {
	ext, err := validate.Extension("Report.PDF", validate.ExtPDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf", ext)

	ext, err = validate.Extension("page.html", validate.ExtPDF, validate.ExtHTML)
	require.NoError(t, err)
	assert.Equal(t, "html", ext)

	_, err = validate.Extension("notes.txt", validate.ExtPDF, validate.ExtHTML)
	assert.ErrorIs(t, err, validate.ErrExtension)

	_, err = validate.Extension("noext", validate.ExtPDF)
	assert.ErrorIs(t, err, validate.ErrExtension)

	_, err = validate.Extension("page.html", validate.ExtPDF)
	assert.ErrorIs(t, err, validate.ErrExtension)
}

func TestVersion(t *testing.T) {
	assert.NoError(t, validate.Version(1))
	assert.ErrorIs(t, validate.Version(0), validate.ErrInvalidVersion)
	assert.ErrorIs(t, validate.Version(-3), validate.ErrInvalidVersion)
}

func TestVoteType(t *testing.T) {
	assert.NoError(t, validate.VoteType("good"))
	assert.NoError(t, validate.VoteType("meh"))
	assert.ErrorIs(t, validate.VoteType(""), validate.ErrInvalidVoteType)
}
