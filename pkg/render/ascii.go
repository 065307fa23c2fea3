package render

import (
	"math"
	"strings"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/pipeline"
)

// Cell is one character of a [Canvas].
type Cell struct {
	Rune   rune
	Symbol color.Symbol
	Color  color.RGB
}

// Canvas is a character raster. Empty cells hold a space.
type Canvas struct {
	Width, Height int
	Cells         [][]Cell
}

var runes = map[color.Symbol]rune{
	color.Primary: '#',
	color.Accent:  '*',
	color.AxisX:   'x',
	color.AxisY:   'y',
	color.AxisZ:   'z',
	color.Grid:    '.',
}

// ASCII draws the frame onto a character canvas. Later lines overwrite
// earlier ones. Terminal cells are about twice as high as wide, so the
// vertical axis is squeezed by half.
func ASCII(f pipeline.Frame, opts ...Option) *Canvas {
	o := newOptions(opts)
	c := &Canvas{Width: o.width, Height: o.height, Cells: make([][]Cell, o.height)}
	for y := range c.Cells {
		c.Cells[y] = make([]Cell, o.width)
		for x := range c.Cells[y] {
			c.Cells[y][x].Rune = ' '
		}
	}

	for s := range segments(f, o.width, o.height*2) {
		r, ok := runes[s.symbol]
		if !ok {
			r = '+'
		}
		c.line(s.x1, s.y1/2, s.x2, s.y2/2, Cell{Rune: r, Symbol: s.symbol, Color: s.color})
	}
	return c
}

// line plots a Bresenham line between the cells containing both points.
func (c *Canvas) line(x1, y1, x2, y2 float64, cell Cell) {
	x0, y0 := int(math.Floor(x1)), int(math.Floor(y1))
	xe, ye := int(math.Floor(x2)), int(math.Floor(y2))
	dx, dy := abs(xe-x0), -abs(ye-y0)
	sx, sy := sign(xe-x0), sign(ye-y0)
	e := dx + dy
	for {
		c.set(x0, y0, cell)
		if x0 == xe && y0 == ye {
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

func (c *Canvas) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Cells[y][x] = cell
}

// String returns the canvas rows joined by newlines, trailing spaces
// trimmed.
func (c *Canvas) String() string {
	var sb strings.Builder
	for y, row := range c.Cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		line := make([]rune, len(row))
		for x, cell := range row {
			line[x] = cell.Rune
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
	}
	return sb.String()
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
