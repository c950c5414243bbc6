// Package ui provides the terminal star field using Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/clock"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/starfield"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/version"
)

// frameMsg is delivered once per requested frame.
type frameMsg time.Time

// Config holds the terminal host settings.
type Config struct {
	FPS        int
	ShowStatus bool
}

// DefaultConfig returns 30 frames per second with the status line shown.
func DefaultConfig() Config {
	return Config{FPS: 30, ShowStatus: true}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	field  *starfield.Field
	canvas *Canvas
	stats  *state.Manager
	log    *logging.Logger

	interval   time.Duration
	epoch      time.Time
	showStatus bool

	// UI state
	width   int
	height  int
	ready   bool
	started bool
	err     error
}

// New creates the root model. field must draw on canvas.
func New(field *starfield.Field, canvas *Canvas, stats *state.Manager, cfg Config, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	if stats == nil {
		stats = state.NewManager(state.DefaultConfig())
	}
	return Model{
		field:      field,
		canvas:     canvas,
		stats:      stats,
		log:        log,
		interval:   clock.FrameInterval(cfg.FPS),
		epoch:      time.Now(),
		showStatus: cfg.ShowStatus,
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

// nextFrame requests a single frame; every frame handler asks again.
func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.field.Stop()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = msg.Width > 0 && m.canvasRows() > 0

		m.canvas.Resize(msg.Width, m.canvasRows())
		m.log.Debug("resized to %dx%d cells", msg.Width, msg.Height)

	case frameMsg:
		return m.frame(time.Time(msg))
	}

	return m, nil
}

func (m Model) frame(now time.Time) (tea.Model, tea.Cmd) {
	if m.field.Stopped() {
		return m, nil
	}
	if !m.ready {
		// No size yet; try again next frame.
		return m, m.nextFrame()
	}

	ts := clock.Millis(now.Sub(m.epoch))

	if !m.started {
		if err := m.field.Start(ts); err != nil {
			m.err = err
			m.log.Error("start: %v", err)
			return m, tea.Quit
		}
		m.started = true
		return m, m.nextFrame()
	}

	if _, err := m.field.Tick(ts); err != nil {
		if errors.Is(err, starfield.ErrStopped) {
			return m, nil
		}
		m.err = err
		m.log.Error("tick: %v", err)
		return m, tea.Quit
	}

	return m, m.nextFrame()
}

func (m Model) canvasRows() int {
	if m.showStatus {
		return m.height - 1
	}
	return m.height
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if !m.started {
		return ""
	}

	if !m.showStatus {
		return m.canvas.Render()
	}
	return m.canvas.Render() + "\n" + m.renderStatus()
}

func (m Model) renderStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	snap := m.stats.Snapshot()
	cfg := m.field.Config()

	parts := []string{
		accentStyle.Render("ls-starfield v" + version.Version),
		dimStyle.Render(fmt.Sprintf("%d stars", cfg.Count)),
		dimStyle.Render(fmt.Sprintf("%.1f fps", snap.FPS)),
		dimStyle.Render(fmt.Sprintf("%d drawn", snap.Drawn)),
	}
	if snap.Failed > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d failed", snap.Failed)))
	}
	parts = append(parts, dimStyle.Render("q quit"))

	line := strings.Join(parts, dimStyle.Render(" | "))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}
