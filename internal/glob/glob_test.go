package glob

import (
	"testing"

	"github.com/jpl-au/docver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		docID   string
		want    bool
	}{
		{"*", "report", true},
		{"rep*", "report", true},
		{"*-2026", "budget-2026", true},
		{"*-2026", "budget-2025", false},
		{"report-?", "report-a", true},
		{"report-?", "report-ab", false},
		{"report-[ab]", "report-b", true},
		{"report-[ab]", "report-c", false},
		{"report", "report", true},
		{"report", "reports", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.docID, func(t *testing.T) {
			got, err := Match(tt.pattern, tt.docID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_BadPattern(t *testing.T) {
	_, err := Match("report-[", "report-a")
	assert.Error(t, err)
}

func TestIsPattern(t *testing.T) {
	assert.True(t, IsPattern("rep*"))
	assert.True(t, IsPattern("r?"))
	assert.True(t, IsPattern("r[ab]"))
	assert.False(t, IsPattern("report-2026"))
}

func TestFilter(t *testing.T) {
	docs := []store.DocumentView{{DocID: "b-2"}, {DocID: "a-1"}, {DocID: "b-1"}}

	got, err := Filter(docs, "b-*")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-2", got[0].DocID)
	assert.Equal(t, "b-1", got[1].DocID)

	got, err = Filter(docs, "z*")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Filter(docs, "[")
	assert.Error(t, err)
}
