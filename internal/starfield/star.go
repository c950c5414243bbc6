package starfield

import (
	"image/color"
	"math"
)

const (
	// Depth is the far plane. New and recycled stars start at most this far
	// away (recycling can overshoot it by up to one unit).
	Depth = 1000.0

	// NearPlane is the depth at or below which a star is recycled.
	NearPlane = 1.0

	// HalfWidth and HalfHeight bound the lateral offsets of new stars.
	HalfWidth  = 800.0
	HalfHeight = 450.0

	// depthScale maps Depth to a projection divisor of 1.
	depthScale = 1 / Depth
)

// Star is one particle. X and Y never change after creation; Z is the depth.
type Star struct {
	X, Y, Z float64
}

func newStar(r Rand) Star {
	return Star{
		X: r.Float64()*2*HalfWidth - HalfWidth,
		Y: r.Float64()*2*HalfHeight - HalfHeight,
		Z: recycle(Depth * (1 - r.Float64())),
	}
}

// recycle pushes z back behind the near plane in whole multiples of Depth,
// keeping the sawtooth continuous for any overshoot. The result is in
// (NearPlane, Depth+NearPlane] whenever z started at or below NearPlane.
func recycle(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return Depth
	}
	if z > NearPlane {
		return z
	}
	z += Depth * (math.Floor((NearPlane-z)/Depth) + 1)
	for z <= NearPlane {
		z += Depth
	}
	// Past about 1e15 the sum above lands on the float spacing, not on a
	// multiple of Depth.
	if z > Depth+NearPlane {
		z = NearPlane + math.Mod(z-NearPlane, Depth)
		if z <= NearPlane {
			z += Depth
		}
	}
	return z
}

// Project maps s onto a width x height viewport centered on the screen
// middle. visible is false when the point falls outside [0,width)x[0,height).
func Project(s Star, width, height int) (x, y float64, visible bool) {
	w, h := float64(width), float64(height)
	d := s.Z * depthScale

	x = w/2 + s.X/d
	y = h/2 + s.Y/d

	visible = x >= 0 && x < w && y >= 0 && y < h
	return x, y, visible
}

// Brightness is 0 at the far plane and approaches 1 as z approaches 0.
// It is not clamped.
func Brightness(z float64) float64 {
	d := z / Depth
	return 1 - d*d
}

// Gray maps a brightness to an opaque gray. Channels are truncated, so 0.75
// gives 191, and clamped to [0, 255].
func Gray(b float64) color.RGBA {
	v := math.Trunc(b * 255)
	switch {
	case v < 0 || math.IsNaN(v):
		v = 0
	case v > 255:
		v = 255
	}
	c := uint8(v)
	return color.RGBA{R: c, G: c, B: c, A: 0xff}
}
