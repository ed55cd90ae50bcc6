package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_SmallBatchSilent(t *testing.T) {
	var buf bytes.Buffer
	b := newBar(&buf, true, "Importing", minItems-1)
	for range minItems - 1 {
		b.Step("doc")
	}
	b.Done()
	assert.Empty(t, buf.String())
}

func TestBar_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	b := newBar(&buf, false, "Importing", 10)
	b.Step("doc")
	b.Done()
	assert.Empty(t, buf.String())
}

func TestBar_Draws(t *testing.T) {
	var buf bytes.Buffer
	b := newBar(&buf, true, "Exporting", 5)
	b.Step("report-2025")
	b.Step("a")
	assert.Equal(t, "\rExporting 1/5 report-2025\rExporting 2/5 a          ", buf.String())

	buf.Reset()
	b.Done()
	assert.Equal(t, "\r"+strings.Repeat(" ", 15)+"\r", buf.String())
}

func TestBusy(t *testing.T) {
	var buf bytes.Buffer
	stop := busy(&buf, true, "Vacuuming")
	assert.Equal(t, "Vacuuming...", buf.String())
	stop()
	assert.Equal(t, "Vacuuming...\r"+strings.Repeat(" ", 12)+"\r", buf.String())

	buf.Reset()
	busy(&buf, false, "Vacuuming")()
	assert.Empty(t, buf.String())
}
