package starfield

import (
	"fmt"
	"image/color"
)

// Config holds the immutable parameters of a Field.
type Config struct {
	Count      int         // number of stars
	Size       float64     // dot radius in pixels
	Speed      float64     // depth units per millisecond
	Background color.Color // opaque fill drawn before every frame
}

// DefaultConfig returns the classic warp look: 3000 one-pixel stars on black.
func DefaultConfig() Config {
	return Config{
		Count:      3000,
		Size:       1,
		Speed:      0.1,
		Background: color.RGBA{A: 0xff},
	}
}

// Validate reports the first invalid field, wrapped in ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrConfiguration, c.Count)
	case !(c.Size > 0):
		return fmt.Errorf("%w: size must be positive, got %v", ErrConfiguration, c.Size)
	case !(c.Speed > 0):
		return fmt.Errorf("%w: speed must be positive, got %v", ErrConfiguration, c.Speed)
	case c.Background == nil:
		return fmt.Errorf("%w: background color is required", ErrConfiguration)
	}
	return nil
}
