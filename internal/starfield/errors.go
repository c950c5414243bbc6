package starfield

import "errors"

var (
	// ErrInitialization is returned when no drawable surface is available.
	ErrInitialization = errors.New("starfield: initialization failed")

	// ErrConfiguration is returned for non-positive counts, sizes or speeds.
	ErrConfiguration = errors.New("starfield: invalid configuration")

	ErrNotStarted     = errors.New("starfield: not started")
	ErrAlreadyStarted = errors.New("starfield: already started")
	ErrStopped        = errors.New("starfield: stopped")

	// ErrClockStopped is returned by a Clock that will deliver no more frames.
	ErrClockStopped = errors.New("starfield: clock stopped")
)
