package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// terminalWidth is the width of out when it is a terminal, else 120.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 120
}

// table writes fixed-width columns. The last column takes what is left.
type table struct {
	out    io.Writer
	widths []int
	total  int
}

func newTable(out io.Writer, fixed ...int) *table {
	return &table{out: out, widths: fixed, total: terminalWidth(out)}
}

// row prints cells; the flexible text cells share the remaining width.
// c, when non-nil, colours the whole line.
func (t *table) row(c *color.Color, cells ...string) {
	used := 0
	for _, w := range t.widths {
		used += w + 2
	}
	flex := len(cells) - len(t.widths)
	flexWidth := 20
	if flex > 0 {
		flexWidth = max((t.total-used)/flex-2, 10)
	}
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := flexWidth
		if i < len(t.widths) {
			w = t.widths[i]
		}
		parts[i] = fit(oneLine(cell), w)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	if c != nil {
		line = c.Sprint(line)
	}
	fmt.Fprintln(t.out, line)
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
