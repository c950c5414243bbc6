package starfield

import (
	"context"
	"image/color"
)

// Surface is the drawing host a Field renders onto.
type Surface interface {
	// Context acquires something to draw on. It fails when the host has no
	// drawable area.
	Context() (Context, error)

	// Size reports the current viewport in pixels.
	Size() (width, height int)

	// OnResize registers fn to be called with the new viewport on every size
	// change. The returned func removes the registration.
	OnResize(fn func(width, height int)) (cancel func())
}

// Context draws one frame.
type Context interface {
	// Fill covers the whole current viewport with c.
	Fill(c color.Color)

	// FillCircle draws an opaque filled circle of radius r centered on (x, y).
	FillCircle(x, y, r float64, c color.Color) error
}

// Clock paces the frame loop in Run.
type Clock interface {
	// NextFrame blocks until the next display frame and returns its
	// timestamp in milliseconds. Timestamps must not decrease. It returns
	// ErrClockStopped when no more frames will come, or ctx.Err().
	NextFrame(ctx context.Context) (float64, error)
}

// Rand is the random source used to place stars. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}
