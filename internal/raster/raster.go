// Package raster is an in-memory starfield.Surface backed by an RGBA image,
// used for headless snapshots.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"github.com/litescript/ls-starfield/internal/starfield"
)

const (
	// kappa places cubic control points for a quarter circle.
	kappa = 0.5522847498

	// solid is the coverage at which a pixel belongs to a disc.
	solid = 0x80
)

var errEmpty = errors.New("raster: image has no pixels")

// Image is a resizable RGBA canvas.
type Image struct {
	mu        sync.Mutex
	img       *image.RGBA
	z         vector.Rasterizer
	mask      *image.Alpha
	observers map[int]func(width, height int)
	nextID    int
}

// New allocates a width x height canvas.
func New(width, height int) *Image {
	return &Image{
		img:       image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		observers: make(map[int]func(width, height int)),
	}
}

// Context returns the image itself; it fails for an empty image.
func (m *Image) Context() (starfield.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.img.Bounds().Empty() {
		return nil, errEmpty
	}
	return m, nil
}

// Size reports the image dimensions.
func (m *Image) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

// OnResize registers fn for Resize notifications.
func (m *Image) OnResize(fn func(width, height int)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.observers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

// Resize reallocates the canvas and notifies observers. The old contents are
// discarded.
func (m *Image) Resize(width, height int) {
	m.mu.Lock()
	m.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	fns := make([]func(int, int), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Fill paints the whole image with c.
func (m *Image) Fill(c color.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draw.Draw(m.img, m.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillCircle paints an opaque disc clipped to the image. Pixels at least half
// covered by the circle take c; the rest keep their color.
func (m *Image) FillCircle(x, y, r float64, c color.Color) error {
	if !(r > 0) || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("raster: bad circle (%v, %v) r=%v", x, y, r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	box := image.Rect(
		int(math.Floor(x-r)), int(math.Floor(y-r)),
		int(math.Ceil(x+r))+1, int(math.Ceil(y+r))+1,
	).Intersect(m.img.Bounds())
	if box.Empty() {
		return nil
	}

	// Rasterize in box-local coordinates so the mask lines up with box.
	lx := float32(x - float64(box.Min.X))
	ly := float32(y - float64(box.Min.Y))
	rr := float32(r)
	k := float32(kappa) * rr

	mask := m.scratch(box.Dx(), box.Dy())
	m.z.Reset(box.Dx(), box.Dy())
	m.z.MoveTo(lx+rr, ly)
	m.z.CubeTo(lx+rr, ly+k, lx+k, ly+rr, lx, ly+rr)
	m.z.CubeTo(lx-k, ly+rr, lx-rr, ly+k, lx-rr, ly)
	m.z.CubeTo(lx-rr, ly-k, lx-k, ly-rr, lx, ly-rr)
	m.z.CubeTo(lx+k, ly-rr, lx+rr, ly-k, lx+rr, ly)
	m.z.ClosePath()
	m.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	fill := color.RGBAModel.Convert(c).(color.RGBA)
	for py := 0; py < box.Dy(); py++ {
		for px := 0; px < box.Dx(); px++ {
			if mask.AlphaAt(px, py).A >= solid {
				m.img.SetRGBA(box.Min.X+px, box.Min.Y+py, fill)
			}
		}
	}

	return nil
}

// scratch returns a cleared w x h coverage mask, reusing the previous buffer
// when it is large enough.
func (m *Image) scratch(w, h int) *image.Alpha {
	n := w * h
	if m.mask == nil || cap(m.mask.Pix) < n {
		m.mask = image.NewAlpha(image.Rect(0, 0, w, h))
		return m.mask
	}
	m.mask.Pix = m.mask.Pix[:n]
	clear(m.mask.Pix)
	m.mask.Stride = w
	m.mask.Rect = image.Rect(0, 0, w, h)
	return m.mask
}

// At returns the pixel at (x, y).
func (m *Image) At(x, y int) color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.img.RGBAAt(x, y)
}

// WritePNG encodes the current frame.
func (m *Image) WritePNG(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := png.Encode(w, m.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

var _ starfield.Surface = (*Image)(nil)
