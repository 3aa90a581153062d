package playground

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/composer/internal/cli/styles"
	"github.com/bnema/composer/internal/domain/entity"
)

// paint is the style class of one canvas cell.
type paint int

const (
	paintNone paint = iota
	paintFrame
	paintValid
	paintDenied
	paintOver
	paintDragged
	paintMarker
	paintLabel
)

type cell struct {
	r rune
	p paint
}

// canvas is a fixed grid of styled runes.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([]cell, c.w*c.h)
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, p: p}
}

// cellBounds converts a rectangle to inclusive cell coordinates.
func cellBounds(r entity.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X))
	y0 = int(math.Floor(r.Y))
	x1 = int(math.Ceil(r.X+r.W)) - 1
	y1 = int(math.Ceil(r.Y+r.H)) - 1
	return x0, y0, x1, y1
}

// box draws the outline of r.
func (c *canvas) box(r entity.Rect, p paint) {
	x0, y0, x1, y1 := cellBounds(r)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', p)
		c.set(x, y1, '─', p)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', p)
		c.set(x1, y, '│', p)
	}
	c.set(x0, y0, '╭', p)
	c.set(x1, y0, '╮', p)
	c.set(x0, y1, '╰', p)
	c.set(x1, y1, '╯', p)
}

// text writes s from (x, y), clipped to limit cells.
func (c *canvas) text(x, y int, s string, limit int, p paint) {
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		c.set(x+i, y, r, p)
		i++
	}
}

// hline draws a horizontal marker from x0 to x1 inclusive.
func (c *canvas) hline(x0, x1, y int, p paint) {
	for x := x0; x <= x1; x++ {
		c.set(x, y, '━', p)
	}
}

// vline draws a vertical marker from y0 to y1 inclusive.
func (c *canvas) vline(x, y0, y1 int, p paint) {
	for y := y0; y <= y1; y++ {
		c.set(x, y, '┃', p)
	}
}

// render joins runs of equally painted cells into styled strings.
func (c *canvas) render(theme *styles.Theme) string {
	styleOf := map[paint]lipgloss.Style{
		paintFrame:   theme.Frame,
		paintValid:   theme.DropValid,
		paintDenied:  theme.DropDenied,
		paintOver:    theme.DropOver,
		paintDragged: theme.Dragged,
		paintMarker:  theme.Marker,
		paintLabel:   theme.Label,
	}

	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].p == row[start].p {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cl := range row[start:x] {
				run = append(run, cl.r)
			}
			if style, ok := styleOf[row[start].p]; ok {
				sb.WriteString(style.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			start = x
		}
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String returns the canvas without styling.
func (c *canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		for _, cl := range c.cells[y*c.w : (y+1)*c.w] {
			sb.WriteRune(cl.r)
		}
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
