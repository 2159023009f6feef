package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Series is a named line on a trend plot.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var seriesColors = []string{colorFault, colorFocus, colorAccent}

// TrendSeries returns per-week total faults and focus-virtue faults for
// archived weeks, oldest first.
func TrendSeries(history []WeekSummary) []Series {
	total := Series{Name: "total faults", Values: make([]float64, 0, len(history))}
	focus := Series{Name: "focus faults", Values: make([]float64, 0, len(history))}
	for i := len(history) - 1; i >= 0; i-- {
		s := history[i]
		total.Values = append(total.Values, float64(s.Total))
		focusFaults := 0
		if s.Focus.ID >= 1 && s.Focus.ID <= len(s.PerVirtue) {
			focusFaults = s.PerVirtue[s.Focus.ID-1]
		}
		focus.Values = append(focus.Values, float64(focusFaults))
	}
	return []Series{total, focus}
}

// PlotTrend draws the series as braille lines on a shared 0..max fault axis.
// width <= 0 sizes the plot to the terminal.
func PlotTrend(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "Not enough history to plot.")
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	layers := make([][][]uint8, len(series))
	for si, s := range series {
		layers[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range resampleSeries(s.Values, width) {
			px, py := x*2, valueToRow(v, maxVal, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(layers[si], dx, dy)
					}
				})
			} else {
				setBrailleDot(layers[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labels := makeAxisLabels(height, maxVal)
	labelWidth := len(labels[0])
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && layer >= 0 {
				row.WriteString(paint(string(ch), seriesColors[layer%len(seriesColors)], true))
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, renderLegend(series, useColor))
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - displayWidth(axisSeparator) - 3
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func makeAxisLabels(height int, maxVal float64) []string {
	top := strconv.Itoa(int(math.Round(maxVal)))
	labels := make([]string, height)
	labels[0] = top
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges layers; the first layer with a dot decides the color.
func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if first == -1 {
			first = i
		}
		mask |= m
	}
	return mask, first
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	return x%ls.period < ls.on
}

// resampleSeries stretches or averages values onto width columns.
func resampleSeries(values []float64, width int) []float64 {
	out := make([]float64, width)
	switch {
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > width:
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := 0; i < width; i++ {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// valueToRow maps v in [0, maxVal] to a dot row, 0 being the top.
func valueToRow(v, maxVal float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	row := int(math.Round((1 - v/maxVal) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", brailleFromMask(0x01), s.Name, lineStyles[i%len(lineStyles)].name)
		parts = append(parts, paint(label, seriesColors[i%len(seriesColors)], useColor))
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine is Bresenham over dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cellY, cellX := y/4, x/2
	if y < 0 || x < 0 || cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func brailleDotMask(x, y int) uint8 {
	return brailleDots[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
