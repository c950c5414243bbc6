// Package clock provides frame clocks for starfield.Field.Run.
package clock

import (
	"context"
	"time"

	"github.com/litescript/ls-starfield/internal/starfield"
)

const (
	// DefaultFPS is used when no positive rate is given.
	DefaultFPS = 60
	maxFPS     = 240
)

// Ticker is a real-time clock firing at a fixed rate. Timestamps are
// milliseconds since the Ticker was created.
type Ticker struct {
	t     *time.Ticker
	epoch time.Time
}

// NewTicker creates a ticker at fps frames per second (see FrameInterval).
func NewTicker(fps int) *Ticker {
	return &Ticker{
		t:     time.NewTicker(FrameInterval(fps)),
		epoch: time.Now(),
	}
}

// FrameInterval returns the duration of one frame at fps. Non-positive rates
// mean DefaultFPS; rates above 240 are clamped.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	} else if fps > maxFPS {
		fps = maxFPS
	}
	return time.Second / time.Duration(fps)
}

// NextFrame waits for the next tick.
func (c *Ticker) NextFrame(ctx context.Context) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case now := <-c.t.C:
		return Millis(now.Sub(c.epoch)), nil
	}
}

// Stop releases the underlying ticker.
func (c *Ticker) Stop() {
	c.t.Stop()
}

// Step is a synthetic clock producing Frames timestamps spaced Interval
// milliseconds apart, starting at Start. It never blocks.
type Step struct {
	Start    float64
	Interval float64
	Frames   int

	n int
}

// NextFrame returns the next synthetic timestamp or ErrClockStopped.
func (c *Step) NextFrame(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c.n >= c.Frames {
		return 0, starfield.ErrClockStopped
	}
	t := c.Start + float64(c.n)*c.Interval
	c.n++
	return t, nil
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var (
	_ starfield.Clock = (*Ticker)(nil)
	_ starfield.Clock = (*Step)(nil)
)
