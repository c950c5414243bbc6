// Package state provides thread-safe frame statistics shared between the
// frame loop and whatever displays them.
package state

import (
	"sync"

	"github.com/litescript/ls-starfield/internal/starfield"
)

// Snapshot is a point-in-time copy of the statistics.
type Snapshot struct {
	Frames      int     // ticks recorded
	Drawn       int     // stars drawn on the last frame
	Skipped     int     // stars off screen on the last frame
	Failed      int     // draw failures across all frames
	LastElapsed float64 // milliseconds between the last two frames
	FPS         float64 // average over the recent window, 0 until known
}

// Config holds configuration for the state manager.
type Config struct {
	// Window is how many recent frame intervals feed the FPS average.
	Window int
}

// DefaultConfig returns a one-second window at 60 frames per second.
func DefaultConfig() Config {
	return Config{Window: 60}
}

// Manager accumulates FrameStats.
type Manager struct {
	mu sync.RWMutex

	frames  int
	failed  int
	last    starfield.FrameStats
	elapsed []float64 // ring buffer of frame intervals in ms
	writeAt int
	filled  int
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	window := cfg.Window
	if window <= 0 {
		window = 60
	}
	return &Manager{
		elapsed: make([]float64, window),
	}
}

// Record adds one frame. Zero-length frames count toward Frames but not
// toward the FPS window.
func (m *Manager) Record(stats starfield.FrameStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames++
	m.failed += stats.Failed
	m.last = stats

	if stats.Elapsed <= 0 {
		return
	}
	m.elapsed[m.writeAt] = stats.Elapsed
	m.writeAt = (m.writeAt + 1) % len(m.elapsed)
	if m.filled < len(m.elapsed) {
		m.filled++
	}
}

// Snapshot returns a copy of the current statistics.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Frames:      m.frames,
		Drawn:       m.last.Drawn,
		Skipped:     m.last.Skipped,
		Failed:      m.failed,
		LastElapsed: m.last.Elapsed,
	}

	if m.filled > 0 {
		var total float64
		for i := 0; i < m.filled; i++ {
			total += m.elapsed[i]
		}
		snap.FPS = 1000 * float64(m.filled) / total
	}

	return snap
}

// Reset clears all statistics.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames, m.failed, m.writeAt, m.filled = 0, 0, 0, 0
	m.last = starfield.FrameStats{}
	clear(m.elapsed)
}
