package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// table lays out cells in aligned columns separated by one space.
// Cells may carry ANSI color codes; they do not count toward width.
type table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	return table{headers: headers, rows: rows, right: rightAlignCols}.lines()
}

func (t table) lines() []string {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}
	all := t.rows
	if len(t.headers) > 0 {
		all = append([][]string{t.headers}, t.rows...)
	}
	out := make([]string, len(all))
	for i, row := range all {
		out[i] = t.render(row, widths)
	}
	return out
}

func (t table) columnWidths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t table) render(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(width-displayWidth(cell), 0))
		if t.right[i] {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// displayWidth counts terminal cells so labels like "Oct 18 – Oct 24" align.
func displayWidth(value string) int {
	return runewidth.StringWidth(stripANSI(value))
}

// stripANSI drops SGR sequences ("\x1b[...m").
func stripANSI(value string) string {
	if !strings.Contains(value, "\x1b[") {
		return value
	}
	var b strings.Builder
	inEscape := false
	for _, r := range value {
		switch {
		case inEscape:
			inEscape = r != 'm'
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
