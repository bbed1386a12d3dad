package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions sizes a plot. Zero values pick defaults.
type PlotOptions struct {
	Width  int // plot cells, excluding the axis
	Height int // rows
	Color  bool
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " ┤ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesColors = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}

// braille dot bits by [y][x] within a 2x4 cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(minPlotWidth, totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator))
}

// TerminalPlotWidth sizes plots for stdout.
func TerminalPlotWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = terminalWidthBackup
	}
	return PlotWidthFor(width)
}

// ColorEnabled reports whether w should receive ANSI colors.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Plot renders series as a braille line chart sharing one y scale.
func Plot(w io.Writer, title string, series []Series, opts PlotOptions) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if opts.Height <= 0 {
		opts.Height = defaultPlotHeight
	}
	if opts.Width <= 0 {
		opts.Width = TerminalPlotWidth()
	}
	opts.Width = max(opts.Width, minPlotWidth)
	if os.Getenv("NO_COLOR") != "" {
		opts.Color = false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range kept {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}

	c := newCanvas(opts.Width, opts.Height)
	dotsY := opts.Height * 4
	for si, s := range kept {
		values := resample(s.Values, opts.Width)
		prevX, prevY := -1, -1
		for i, v := range values {
			x := i * 2
			y := int(math.Round((hi - v) / (hi - lo) * float64(dotsY-1)))
			if prevX < 0 {
				c.set(x, y, si)
			} else {
				c.line(prevX, prevY, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for row := 0; row < opts.Height; row++ {
		label := ""
		switch row {
		case 0:
			label = formatAxis(hi)
		case opts.Height / 2:
			label = formatAxis((hi + lo) / 2)
		case opts.Height - 1:
			label = formatAxis(lo)
		}
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, label, axisSeparator)
		for col := 0; col < opts.Width; col++ {
			b.WriteString(c.cell(col, row, opts.Color))
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(kept, opts.Color) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func formatAxis(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		part := "⣿ " + s.Name
		if color {
			part = seriesColors[i%len(seriesColors)] + part + colorReset
		}
		parts[i] = part
	}
	return strings.Repeat(" ", axisLabelWidth) + "   " + strings.Join(parts, "  ")
}

type canvas struct {
	width, height int
	bits          [][]uint8
	owner         [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.bits = make([][]uint8, height)
	c.owner = make([][]int, height)
	for y := range c.bits {
		c.bits[y] = make([]uint8, width)
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

func (c *canvas) set(x, y, series int) {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= c.width || row >= c.height {
		return
	}
	c.bits[row][col] |= brailleBits[y%4][x%2]
	if c.owner[row][col] < 0 {
		c.owner[row][col] = series
	}
}

// line draws with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) cell(col, row int, color bool) string {
	ch := string(rune(0x2800 + int(c.bits[row][col])))
	owner := c.owner[row][col]
	if !color || owner < 0 {
		return ch
	}
	return seriesColors[owner%len(seriesColors)] + ch + colorReset
}

// resample stretches or averages values to exactly n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
