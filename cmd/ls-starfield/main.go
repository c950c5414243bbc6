// Command ls-starfield renders a warp-speed star field in the terminal, in a
// desktop window, or headless into a PNG (a fixed number of simulated frames,
// or a live run for a set duration).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-starfield/internal/clock"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/palette"
	"github.com/litescript/ls-starfield/internal/raster"
	"github.com/litescript/ls-starfield/internal/starfield"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/ui"
	"github.com/litescript/ls-starfield/internal/version"
	"github.com/litescript/ls-starfield/internal/window"
)

// errUsage marks flag errors; the flag package has already printed them.
var errUsage = errors.New("usage")

// options collects every command-line flag.
type options struct {
	count      int
	size       float64
	speed      float64
	background string
	seed       uint64
	fps        int
	backend    string
	frames     int
	duration   time.Duration
	width      int
	height     int
	out        string
	logLevel   string
	logFile    string
	noStatus   bool
	version    bool
}

func parseFlags(args []string) (options, error) {
	def := starfield.DefaultConfig()
	var o options

	fs := flag.NewFlagSet("ls-starfield", flag.ContinueOnError)
	fs.IntVar(&o.count, "count", def.Count, "Number of stars")
	fs.Float64Var(&o.size, "size", def.Size, "Star radius in pixels (dots in the terminal)")
	fs.Float64Var(&o.speed, "speed", def.Speed, "Depth units per millisecond")
	fs.StringVar(&o.background, "bg", "black", "Background color (name or #rrggbb)")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	fs.IntVar(&o.fps, "fps", ui.DefaultConfig().FPS, "Target frames per second (tui, snapshot and live)")
	fs.StringVar(&o.backend, "backend", "tui", "Renderer: tui, window, snapshot or live")
	fs.IntVar(&o.frames, "frames", 60, "Frames to simulate before writing a snapshot")
	fs.DurationVar(&o.duration, "duration", 5*time.Second, "How long the live backend runs before writing a snapshot")
	fs.IntVar(&o.width, "width", 1280, "Window or snapshot width in pixels")
	fs.IntVar(&o.height, "height", 720, "Window or snapshot height in pixels")
	fs.StringVar(&o.out, "out", "starfield.png", "Snapshot output file (use - for stdout)")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.logFile, "log-file", "", "Log file (the tui discards logs when unset)")
	fs.BoolVar(&o.noStatus, "no-status", false, "Hide the tui status line")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}
	return o, nil
}

// config turns flags into a validated starfield.Config.
func (o options) config() (starfield.Config, error) {
	bg, err := palette.Parse(o.background)
	if err != nil {
		return starfield.Config{}, fmt.Errorf("%w: %w", starfield.ErrConfiguration, err)
	}

	switch {
	case !knownBackend(o.backend):
		return starfield.Config{}, fmt.Errorf("%w: unknown backend %q", starfield.ErrConfiguration, o.backend)
	case o.backend == "snapshot" && o.frames < 1:
		return starfield.Config{}, fmt.Errorf("%w: -frames must be at least 1, got %d", starfield.ErrConfiguration, o.frames)
	case o.backend == "live" && o.duration <= 0:
		return starfield.Config{}, fmt.Errorf("%w: -duration must be positive, got %v", starfield.ErrConfiguration, o.duration)
	}

	cfg := starfield.Config{
		Count:      o.count,
		Size:       o.size,
		Speed:      o.speed,
		Background: bg,
	}
	if err := cfg.Validate(); err != nil {
		return starfield.Config{}, err
	}
	return cfg, nil
}

func knownBackend(name string) bool {
	switch name {
	case "tui", "window", "snapshot", "live":
		return true
	}
	return false
}

func (o options) rand() *rand.Rand {
	seed := o.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	case errors.Is(err, starfield.ErrConfiguration):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run does everything main does short of exiting, so deferred cleanup always
// happens.
func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	if o.version {
		fmt.Println("ls-starfield", version.Version)
		return nil
	}

	cfg, err := o.config()
	if err != nil {
		return err
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(o.logLevel))
	if o.backend == "tui" {
		logger.SetOutput(io.Discard)
	}
	if o.logFile != "" {
		f, err := tea.LogToFile(o.logFile, "ls-starfield")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats := state.NewManager(state.DefaultConfig())
	logger.Info("ls-starfield %s: %d stars, size %v, speed %v, backend %s",
		version.Version, cfg.Count, cfg.Size, cfg.Speed, o.backend)

	switch o.backend {
	case "tui":
		err = runTUI(cfg, o, stats, logger)
	case "window":
		err = runWindow(cfg, o, stats, logger)
	case "snapshot":
		err = runSnapshot(ctx, cfg, o, stats, logger)
	case "live":
		err = runLive(ctx, cfg, o, stats, logger)
	default:
		err = fmt.Errorf("%w: unknown backend %q", starfield.ErrConfiguration, o.backend)
	}

	snap := stats.Snapshot()
	logger.Info("rendered %d frames, %d draw failures", snap.Frames, snap.Failed)
	return err
}

func runTUI(cfg starfield.Config, o options, stats *state.Manager, logger *logging.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the tui backend needs a terminal; try -backend snapshot")
	}

	canvas := ui.NewCanvas()
	field, err := starfield.New(canvas, cfg,
		starfield.WithRand(o.rand()),
		starfield.WithLogger(logger.With("field")),
		starfield.WithFrameHook(stats.Record),
	)
	if err != nil {
		return err
	}

	model := ui.New(field, canvas, stats, ui.Config{FPS: o.fps, ShowStatus: !o.noStatus}, logger.With("ui"))

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Run TUI (blocks until quit)
	final, err := p.Run()
	field.Stop()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}

func runWindow(cfg starfield.Config, o options, stats *state.Manager, logger *logging.Logger) error {
	surface := window.NewSurface(o.width, o.height)
	field, err := starfield.New(surface, cfg,
		starfield.WithRand(o.rand()),
		starfield.WithLogger(logger.With("field")),
		starfield.WithFrameHook(stats.Record),
	)
	if err != nil {
		return err
	}

	return window.Run(window.NewGame(field, surface, logger.With("window")), "ls-starfield")
}

func runSnapshot(ctx context.Context, cfg starfield.Config, o options, stats *state.Manager, logger *logging.Logger) error {
	img := raster.New(o.width, o.height)
	field, err := starfield.New(img, cfg,
		starfield.WithRand(o.rand()),
		starfield.WithLogger(logger.With("field")),
		starfield.WithFrameHook(stats.Record),
	)
	if err != nil {
		return err
	}

	// One extra frame starts the field; at least one tick paints it.
	frames := &clock.Step{
		Interval: clock.Millis(clock.FrameInterval(o.fps)),
		Frames:   max(o.frames, 1) + 1,
	}
	if err := field.Run(ctx, frames); err != nil {
		return err
	}
	field.Stop()

	return writeSnapshot(img, o, logger)
}

// runLive drives the field in real time on an offscreen image until the
// duration elapses or the process is interrupted, then writes the last frame.
func runLive(ctx context.Context, cfg starfield.Config, o options, stats *state.Manager, logger *logging.Logger) error {
	img := raster.New(o.width, o.height)
	field, err := starfield.New(img, cfg,
		starfield.WithRand(o.rand()),
		starfield.WithLogger(logger.With("field")),
		starfield.WithFrameHook(stats.Record),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, o.duration)
	defer cancel()

	ticker := clock.NewTicker(o.fps)
	defer ticker.Stop()

	err = field.Run(ctx, ticker)
	field.Stop()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	snap := stats.Snapshot()
	logger.Info("live run: %d frames at %.1f fps", snap.Frames, snap.FPS)
	return writeSnapshot(img, o, logger)
}

func writeSnapshot(img *raster.Image, o options, logger *logging.Logger) error {
	if o.out == "-" {
		return img.WritePNG(os.Stdout)
	}

	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	if err := img.WritePNG(f); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logger.Info("wrote %s (%dx%d)", o.out, o.width, o.height)
	return nil
}
