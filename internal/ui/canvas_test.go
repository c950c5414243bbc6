package ui

import (
	"image/color"
	"strings"
	"testing"
)

func TestCanvas_SizeInDots(t *testing.T) {
	c := NewCanvas()
	if _, err := c.Context(); err == nil {
		t.Error("Context on empty canvas should fail")
	}

	c.Resize(40, 10)
	if w, h := c.Size(); w != 80 || h != 40 {
		t.Errorf("Size = %dx%d, want 80x40", w, h)
	}
	if cols, rows := c.Cells(); cols != 40 || rows != 10 {
		t.Errorf("Cells = %dx%d, want 40x10", cols, rows)
	}
	if _, err := c.Context(); err != nil {
		t.Errorf("Context: %v", err)
	}
}

func TestCanvas_DotBits(t *testing.T) {
	tests := []struct {
		x, y float64
		want rune
	}{
		{0.2, 0.2, '⠁'}, // top-left dot
		{1.2, 0.2, '⠈'}, // top-right dot
		{0.2, 3.2, '⡀'}, // bottom-left dot
		{1.5, 3.5, '⢀'}, // bottom-right dot
	}

	for _, tt := range tests {
		c := NewCanvas()
		c.Resize(1, 1)
		// A tiny radius sets only the dot under the point.
		if err := c.FillCircle(tt.x, tt.y, 0.1, color.White); err != nil {
			t.Fatalf("FillCircle: %v", err)
		}
		if got := c.glyphAt(0, 0); got != tt.want {
			t.Errorf("dot at (%v, %v) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCanvas_RadiusFillsCell(t *testing.T) {
	c := NewCanvas()
	c.Resize(3, 3)

	// Centered in cell (1,1); radius 3 covers all eight of its dots.
	if err := c.FillCircle(3, 6, 3, color.White); err != nil {
		t.Fatalf("FillCircle: %v", err)
	}
	if got := c.glyphAt(1, 1); got != '⣿' {
		t.Errorf("center cell = %q, want full block", got)
	}
}

func TestCanvas_BrightestWins(t *testing.T) {
	c := NewCanvas()
	c.Resize(1, 1)

	bright := color.RGBA{200, 200, 200, 255}
	dim := color.RGBA{40, 40, 40, 255}
	_ = c.FillCircle(0.5, 0.5, 0.1, bright)
	_ = c.FillCircle(1.5, 0.5, 0.1, dim)

	if got := c.cells[0].fg; got != bright {
		t.Errorf("cell color = %v, want %v", got, bright)
	}
}

func TestCanvas_ClipsOutside(t *testing.T) {
	c := NewCanvas()
	c.Resize(2, 2)

	if err := c.FillCircle(-10, -10, 2, color.White); err != nil {
		t.Fatalf("FillCircle: %v", err)
	}
	if err := c.FillCircle(3.5, 7.5, 50, color.White); err != nil {
		t.Fatalf("FillCircle: %v", err)
	}
	for i, cl := range c.cells {
		if cl.bits != 0xff {
			t.Errorf("cell %d bits = %08b, want all set by the large circle", i, cl.bits)
		}
	}
}

func TestCanvas_BadCircle(t *testing.T) {
	c := NewCanvas()
	c.Resize(2, 2)
	if err := c.FillCircle(1, 1, 0, color.White); err == nil {
		t.Error("zero radius should fail")
	}
}

func TestCanvas_FillClears(t *testing.T) {
	c := NewCanvas()
	c.Resize(2, 1)
	_ = c.FillCircle(0.5, 0.5, 1, color.White)

	c.Fill(color.Black)
	if got := c.glyphAt(0, 0); got != ' ' {
		t.Errorf("after Fill cell = %q, want blank", got)
	}
}

func TestCanvas_ResizeNotifies(t *testing.T) {
	c := NewCanvas()

	var w, h int
	cancel := c.OnResize(func(width, height int) { w, h = width, height })
	c.Resize(10, 5)
	if w != 20 || h != 20 {
		t.Errorf("observer got %dx%d, want 20x20", w, h)
	}

	cancel()
	c.Resize(1, 1)
	if w != 20 {
		t.Error("observer called after cancel")
	}
}

func TestCanvas_Render(t *testing.T) {
	c := NewCanvas()
	c.Resize(4, 2)
	c.Fill(color.Black)
	_ = c.FillCircle(0.5, 0.5, 0.1, color.White)
	_ = c.FillCircle(7.5, 4.5, 0.1, color.White)

	out := c.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "⠁") {
		t.Errorf("first row missing dot: %q", lines[0])
	}
	if !strings.Contains(lines[1], "⠈") {
		t.Errorf("second row missing dot: %q", lines[1])
	}
}
