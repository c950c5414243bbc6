// Package window runs the star field in a desktop window using Ebitengine.
package window

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/litescript/ls-starfield/internal/clock"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/starfield"
)

var errNoScreen = errors.New("window: no screen bound yet")

// Surface adapts the Ebitengine screen to starfield.Surface. The screen is
// bound at the start of every Draw; the size comes from Layout.
type Surface struct {
	mu        sync.Mutex
	screen    *ebiten.Image
	width     int
	height    int
	observers map[int]func(width, height int)
	nextID    int
}

// NewSurface creates a surface with an initial size in pixels.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:     width,
		height:    height,
		observers: make(map[int]func(width, height int)),
	}
}

// Context returns the surface once a screen has been bound.
func (s *Surface) Context() (starfield.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == nil {
		return nil, errNoScreen
	}
	return s, nil
}

// Size reports the logical screen size.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// OnResize registers fn for size changes reported by Layout.
func (s *Surface) OnResize(fn func(width, height int)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Fill clears the screen to c.
func (s *Surface) Fill(c color.Color) {
	if screen := s.current(); screen != nil {
		screen.Fill(c)
	}
}

// FillCircle draws an opaque, aliased disc on the screen.
func (s *Surface) FillCircle(x, y, r float64, c color.Color) error {
	screen := s.current()
	if screen == nil {
		return errNoScreen
	}
	if !(r > 0) {
		return fmt.Errorf("window: bad radius %v", r)
	}
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), c, false)
	return nil
}

func (s *Surface) current() *ebiten.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func (s *Surface) bind(screen *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
}

// setSize records a new size and notifies observers when it changed.
func (s *Surface) setSize(width, height int) {
	s.mu.Lock()
	if width == s.width && height == s.height {
		s.mu.Unlock()
		return
	}
	s.width, s.height = width, height
	fns := make([]func(int, int), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Game implements ebiten.Game around a Field drawing on a Surface.
type Game struct {
	field   *starfield.Field
	surface *Surface
	log     *logging.Logger
	epoch   time.Time
	started bool
	err     error
}

// NewGame creates a game. field must draw on surface.
func NewGame(field *starfield.Field, surface *Surface, log *logging.Logger) *Game {
	if log == nil {
		log = logging.Discard()
	}
	return &Game{
		field:   field,
		surface: surface,
		log:     log,
		epoch:   time.Now(),
	}
}

// Err returns the error that ended the game, if any.
func (g *Game) Err() error {
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.field.Stop()
	}
	if g.field.Stopped() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. The first frame starts the field, later
// frames tick it.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil || g.field.Stopped() {
		return
	}
	g.surface.bind(screen)
	g.frame(clock.Millis(time.Since(g.epoch)))
}

func (g *Game) frame(ts float64) {
	if !g.started {
		if err := g.field.Start(ts); err != nil {
			g.err = err
			g.log.Error("start: %v", err)
			return
		}
		g.started = true
		return
	}

	if _, err := g.field.Tick(ts); err != nil && !errors.Is(err, starfield.ErrStopped) {
		g.err = err
		g.log.Error("tick: %v", err)
	}
}

// Layout implements ebiten.Game. The logical screen follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.surface.setSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and blocks until it is closed.
func Run(g *Game, title string) error {
	w, h := g.surface.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	g.field.Stop()
	return g.err
}

var _ starfield.Surface = (*Surface)(nil)
