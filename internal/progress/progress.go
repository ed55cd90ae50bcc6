// Package progress reports batch work (seed, export, import, vacuum) on
// stderr so stdout stays parseable. Nothing is drawn unless stderr is a
// terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// minItems is the smallest batch that gets a counter.
const minItems = 5

// Bar counts finished items of a known-size batch.
type Bar struct {
	w     io.Writer
	tty   bool
	label string
	total int
	done  int
	width int // length of the last line drawn
}

// New returns a Bar drawing to stderr.
func New(label string, total int) *Bar {
	return newBar(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), label, total)
}

func newBar(w io.Writer, tty bool, label string, total int) *Bar {
	return &Bar{w: w, tty: tty, label: label, total: total}
}

func (b *Bar) visible() bool {
	return b.tty && b.total >= minItems
}

// Step marks one item finished and redraws the line with its name,
// e.g. "Importing 3/12 report".
func (b *Bar) Step(item string) {
	b.done++
	if !b.visible() {
		return
	}
	line := fmt.Sprintf("%s %d/%d %s", b.label, b.done, b.total, item)
	b.draw(line)
}

// Done erases the line.
func (b *Bar) Done() {
	if !b.visible() {
		return
	}
	b.draw("")
}

// draw overwrites the previous line in place, padding out leftovers.
func (b *Bar) draw(line string) {
	pad := max(b.width-len(line), 0)
	fmt.Fprintf(b.w, "\r%s%s", line, strings.Repeat(" ", pad))
	if line == "" {
		fmt.Fprint(b.w, "\r")
	}
	b.width = len(line)
}

// Busy shows label while a single blocking call runs. The returned func
// clears it.
func Busy(label string) func() {
	return busy(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), label)
}

func busy(w io.Writer, tty bool, label string) func() {
	if !tty {
		return func() {}
	}
	line := label + "..."
	fmt.Fprint(w, line)
	return func() {
		fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(line)))
	}
}
