package starfield

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name          string
		star          Star
		width, height int
		wantX, wantY  float64
		wantVisible   bool
	}{
		{"center", Star{0, 0, 500}, 800, 600, 400, 300, true},
		{"far plane keeps offset", Star{100, -50, 1000}, 800, 600, 500, 250, true},
		{"near star spreads", Star{100, 0, 500}, 800, 600, 600, 300, true},
		{"right edge excluded", Star{400, 0, 1000}, 800, 600, 800, 300, false},
		{"left edge included", Star{-400, 0, 1000}, 800, 600, 0, 300, true},
		{"below", Star{0, 300, 1000}, 800, 600, 400, 600, false},
		{"above", Star{0, -400, 1000}, 800, 600, 400, -100, false},
		{"empty viewport", Star{0, 0, 500}, 0, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, visible := Project(tt.star, tt.width, tt.height)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("Project = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
			if visible != tt.wantVisible {
				t.Errorf("visible = %v, want %v", visible, tt.wantVisible)
			}
		})
	}
}

func TestProject_CenterIgnoresConfig(t *testing.T) {
	for _, size := range []int{2, 100, 1921} {
		x, y, _ := Project(Star{0, 0, 500}, size, size/2)
		if x != float64(size)/2 || y != float64(size/2)/2 {
			t.Errorf("size %d: center star at (%v, %v)", size, x, y)
		}
	}
}

func TestBrightness(t *testing.T) {
	if got := Brightness(1000); got != 0 {
		t.Errorf("Brightness(1000) = %v, want 0", got)
	}
	if got := Brightness(500); got != 0.75 {
		t.Errorf("Brightness(500) = %v, want 0.75", got)
	}
	if got := Brightness(1e-9); math.Abs(got-1) > 1e-9 {
		t.Errorf("Brightness(~0) = %v, want ~1", got)
	}

	prev := Brightness(1)
	for z := 2.0; z <= 1000; z++ {
		b := Brightness(z)
		if b >= prev {
			t.Fatalf("Brightness not decreasing at z=%v: %v >= %v", z, b, prev)
		}
		prev = b
	}
}

func TestGray(t *testing.T) {
	tests := []struct {
		b    float64
		want uint8
	}{
		{0, 0},
		{0.75, 191},
		{1, 255},
		{0.999, 254},
		{-0.002, 0},
		{1.5, 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		got := Gray(tt.b)
		want := color.RGBA{tt.want, tt.want, tt.want, 255}
		if got != want {
			t.Errorf("Gray(%v) = %v, want %v", tt.b, got, want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero count", func(c *Config) { c.Count = 0 }, true},
		{"negative size", func(c *Config) { c.Size = -1 }, true},
		{"NaN speed", func(c *Config) { c.Speed = math.NaN() }, true},
		{"zero speed", func(c *Config) { c.Speed = 0 }, true},
		{"nil background", func(c *Config) { c.Background = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Count != 3000 || cfg.Size != 1 || cfg.Speed != 0.1 {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if cfg.Background != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("background = %v, want opaque black", cfg.Background)
	}
}
