// Package starfield simulates and projects the warp star field.
//
// A Field owns its stars. The host drives it: Start once on the first frame,
// then Tick on every frame after that, either directly from a host event loop
// or through Run with a Clock.
package starfield

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litescript/ls-starfield/internal/logging"
)

// FrameStats describes what a single Tick did.
type FrameStats struct {
	Elapsed float64 // milliseconds since the previous frame
	Drawn   int     // stars drawn
	Skipped int     // stars projected off screen
	Failed  int     // draw calls that returned an error
}

// Field is the star field simulation.
type Field struct {
	surface   Surface
	cfg       Config
	rand      Rand
	log       *logging.Logger
	frameHook func(FrameStats)

	// Lifecycle; Stop may run on another goroutine.
	mu          sync.Mutex
	started     bool
	stopped     atomic.Bool
	unsubscribe func()

	// Frame state, touched only by Start and Tick.
	ctx      Context
	stars    []Star
	prevTime float64

	view viewport
}

// Option configures a Field.
type Option func(*Field)

// WithRand sets the random source used to place stars.
func WithRand(r Rand) Option {
	return func(f *Field) {
		f.rand = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Field) {
		f.log = l
	}
}

// WithFrameHook registers fn to receive the stats of every tick.
func WithFrameHook(fn func(FrameStats)) Option {
	return func(f *Field) {
		f.frameHook = fn
	}
}

// New creates a field drawing on surface. Nothing is acquired until Start.
func New(surface Surface, cfg Config, opts ...Option) (*Field, error) {
	if isNil(surface) {
		return nil, fmt.Errorf("%w: no surface", ErrInitialization)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		surface: surface,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.rand == nil {
		now := uint64(time.Now().UnixNano())
		f.rand = rand.New(rand.NewPCG(now, now>>17|1))
	}
	if f.log == nil {
		f.log = logging.Discard()
	}

	return f, nil
}

// isNil also catches a typed nil pointer wrapped in the interface.
func isNil(s Surface) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Config returns the field's configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Start acquires the drawing context, caches the viewport, subscribes to
// resizes and generates the stars. t becomes the baseline for the first
// Tick, so a first Tick with the same timestamp moves nothing.
func (f *Field) Start(t float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped.Load() {
		return ErrStopped
	}
	if f.started {
		return ErrAlreadyStarted
	}

	ctx, err := f.surface.Context()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	if ctx == nil {
		return fmt.Errorf("%w: surface returned no context", ErrInitialization)
	}
	f.ctx = ctx

	f.view.store(f.surface.Size())
	f.unsubscribe = f.surface.OnResize(func(width, height int) {
		f.view.store(width, height)
	})

	f.stars = make([]Star, f.cfg.Count)
	for i := range f.stars {
		f.stars[i] = newStar(f.rand)
	}

	f.prevTime = t
	f.started = true

	w, h := f.view.load()
	f.log.Info("started with %d stars on %dx%d", len(f.stars), w, h)
	return nil
}

// Advance moves every star distance units toward the viewer and recycles
// those that reach the near plane.
func (f *Field) Advance(distance float64) {
	for i := range f.stars {
		f.stars[i].Z = recycle(f.stars[i].Z - distance)
	}
}

// Tick runs one frame at timestamp t (milliseconds): advance, clear, then
// draw every visible star in slice order. A failed draw is logged and
// counted; the rest of the frame still renders.
func (f *Field) Tick(t float64) (FrameStats, error) {
	if f.stopped.Load() {
		return FrameStats{}, ErrStopped
	}
	if !f.started {
		return FrameStats{}, ErrNotStarted
	}

	elapsed := t - f.prevTime
	if finite(t) {
		f.prevTime = t
	}
	switch {
	case !finite(elapsed):
		f.log.Debug("ignoring frame time %v (previous %v)", t, f.prevTime)
		elapsed = 0
	case elapsed < 0:
		f.log.Debug("clock went backwards by %.3fms", -elapsed)
		elapsed = 0
	}

	f.Advance(elapsed * f.cfg.Speed)
	f.ctx.Fill(f.cfg.Background)

	width, height := f.view.load()
	stats := FrameStats{Elapsed: elapsed}

	for i, s := range f.stars {
		x, y, visible := Project(s, width, height)
		if !visible {
			stats.Skipped++
			continue
		}

		if err := f.ctx.FillCircle(x, y, f.cfg.Size, Gray(Brightness(s.Z))); err != nil {
			stats.Failed++
			f.log.Debug("draw star %d at (%.1f, %.1f): %v", i, x, y, err)
			continue
		}
		stats.Drawn++
	}

	if stats.Failed > 0 {
		f.log.Warn("%d of %d draws failed", stats.Failed, stats.Failed+stats.Drawn)
	}
	if f.frameHook != nil {
		f.frameHook(stats)
	}

	return stats, nil
}

// Run drives the field from clock until the clock stops, ctx is cancelled or
// the field is stopped. The first frame starts the field.
func (f *Field) Run(ctx context.Context, clock Clock) error {
	t, err := clock.NextFrame(ctx)
	if err != nil {
		return endOfFrames(err)
	}
	if err := f.Start(t); err != nil {
		return err
	}

	for {
		t, err := clock.NextFrame(ctx)
		if err != nil {
			return endOfFrames(err)
		}
		if _, err := f.Tick(t); err != nil {
			if errors.Is(err, ErrStopped) {
				return nil
			}
			return err
		}
	}
}

func endOfFrames(err error) error {
	if errors.Is(err, ErrClockStopped) {
		return nil
	}
	return err
}

// Stop ends the animation and drops the resize subscription. Later ticks
// return ErrStopped. Safe to call more than once and from any goroutine.
func (f *Field) Stop() {
	if f.stopped.Swap(true) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.log.Info("stopped")
}

// Stopped reports whether Stop has been called.
func (f *Field) Stopped() bool {
	return f.stopped.Load()
}

// Stars returns a copy of the current stars in draw order.
func (f *Field) Stars() []Star {
	out := make([]Star, len(f.stars))
	copy(out, f.stars)
	return out
}

// Viewport returns the cached viewport size.
func (f *Field) Viewport() (width, height int) {
	return f.view.load()
}

// viewport is a width/height pair replaced atomically so a resize arriving
// from another goroutine is never observed half-written.
type viewport struct {
	v atomic.Uint64
}

func (vp *viewport) store(width, height int) {
	vp.v.Store(uint64(clampDim(width))<<32 | uint64(clampDim(height)))
}

func (vp *viewport) load() (width, height int) {
	v := vp.v.Load()
	return int(uint32(v >> 32)), int(uint32(v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampDim(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > 1<<31-1 {
		return 1<<31 - 1
	}
	return uint32(n)
}
