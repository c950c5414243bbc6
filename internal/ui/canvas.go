package ui

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/palette"
	"github.com/litescript/ls-starfield/internal/starfield"
)

// Each terminal cell is a 2x4 braille block.
const (
	dotsX = 2
	dotsY = 4

	brailleBase = 0x2800
)

// brailleBits[row][col] is the dot bit for a position inside a cell.
var brailleBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

var errNoCells = errors.New("ui: terminal has no drawable cells")

type cell struct {
	bits uint8
	fg   color.RGBA
}

// Canvas is a braille sub-cell canvas. Its viewport is measured in dots, two
// per column and four per row. A cell keeps the brightest color drawn into
// it. Not safe for concurrent use; Bubble Tea calls it from Update only.
type Canvas struct {
	cols, rows int
	cells      []cell
	bg         color.RGBA

	observers map[int]func(width, height int)
	nextID    int
}

// NewCanvas creates an empty canvas; it becomes drawable after Resize.
func NewCanvas() *Canvas {
	return &Canvas{
		bg:        color.RGBA{A: 0xff},
		observers: make(map[int]func(width, height int)),
	}
}

// Context returns the canvas once it has at least one cell.
func (c *Canvas) Context() (starfield.Context, error) {
	if c.cols == 0 || c.rows == 0 {
		return nil, errNoCells
	}
	return c, nil
}

// Size reports the viewport in dots.
func (c *Canvas) Size() (int, int) {
	return c.cols * dotsX, c.rows * dotsY
}

// Cells reports the canvas size in terminal cells.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// OnResize registers fn to receive the new size in dots.
func (c *Canvas) OnResize(fn func(width, height int)) func() {
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return func() {
		delete(c.observers, id)
	}
}

// Resize sets the canvas to cols x rows cells, clears it and notifies
// observers.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([]cell, c.cols*c.rows)

	w, h := c.Size()
	for _, fn := range c.observers {
		fn(w, h)
	}
}

// Fill clears every cell and remembers col as the background.
func (c *Canvas) Fill(col color.Color) {
	c.bg = toRGBA(col)
	clear(c.cells)
}

// FillCircle sets every dot whose center lies within r of (x, y). The dot
// under (x, y) is always set, so sub-dot radii still show up.
func (c *Canvas) FillCircle(x, y, r float64, col color.Color) error {
	if !(r > 0) || math.IsNaN(x) || math.IsNaN(y) {
		return fmt.Errorf("ui: bad circle (%v, %v) r=%v", x, y, r)
	}

	fg := toRGBA(col)
	w, h := c.Size()

	c.setDot(int(math.Floor(x)), int(math.Floor(y)), w, h, fg)

	r2 := r * r
	x0, x1 := clampInt(math.Floor(x-r), w), clampInt(math.Ceil(x+r), w)
	y0, y1 := clampInt(math.Floor(y-r), h), clampInt(math.Ceil(y+r), h)
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			ex := float64(dx) + 0.5 - x
			ey := float64(dy) + 0.5 - y
			if ex*ex+ey*ey <= r2 {
				c.setDot(dx, dy, w, h, fg)
			}
		}
	}
	return nil
}

func (c *Canvas) setDot(x, y, w, h int, fg color.RGBA) {
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}

	cl := &c.cells[(y/dotsY)*c.cols+x/dotsX]
	cl.bits |= brailleBits[y%dotsY][x%dotsX]
	if luma(fg) >= luma(cl.fg) {
		cl.fg = fg
	}
}

// Render draws the canvas as rows of styled braille runs.
func (c *Canvas) Render() string {
	bgColor := lipgloss.Color(palette.Hex(c.bg))
	blank := lipgloss.NewStyle().Background(bgColor)
	styles := make(map[color.RGBA]lipgloss.Style)

	styleFor := func(fg color.RGBA) lipgloss.Style {
		s, ok := styles[fg]
		if !ok {
			s = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Hex(fg))).
				Background(bgColor)
			styles[fg] = s
		}
		return s
	}

	var b strings.Builder
	var run strings.Builder

	for row := 0; row < c.rows; row++ {
		line := c.cells[row*c.cols : (row+1)*c.cols]

		for i := 0; i < len(line); {
			j := i
			run.Reset()

			if line[i].bits == 0 {
				for j < len(line) && line[j].bits == 0 {
					run.WriteByte(' ')
					j++
				}
				b.WriteString(blank.Render(run.String()))
			} else {
				fg := line[i].fg
				for j < len(line) && line[j].bits != 0 && line[j].fg == fg {
					run.WriteRune(rune(brailleBase + int(line[j].bits)))
					j++
				}
				b.WriteString(styleFor(fg).Render(run.String()))
			}
			i = j
		}

		if row < c.rows-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// glyphAt returns the glyph of the cell at (col, row), or ' ' when empty.
func (c *Canvas) glyphAt(col, row int) rune {
	cl := c.cells[row*c.cols+col]
	if cl.bits == 0 {
		return ' '
	}
	return rune(brailleBase + int(cl.bits))
}

func toRGBA(col color.Color) color.RGBA {
	if col == nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b, _ := col.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

// clampInt converts v to an int within [-1, n].
func clampInt(v float64, n int) int {
	switch {
	case v < -1:
		return -1
	case v > float64(n):
		return n
	}
	return int(v)
}

func luma(c color.RGBA) int {
	return 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
}

var _ starfield.Surface = (*Canvas)(nil)
