// Package palette converts between user-facing color strings and image colors.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// named holds the CSS color keywords that make sense as a star field
// background.
var named = map[string]string{
	"black":        "#000000",
	"white":        "#ffffff",
	"gray":         "#808080",
	"grey":         "#808080",
	"dimgray":      "#696969",
	"darkgray":     "#a9a9a9",
	"silver":       "#c0c0c0",
	"navy":         "#000080",
	"darkblue":     "#00008b",
	"midnightblue": "#191970",
	"indigo":       "#4b0082",
	"purple":       "#800080",
	"maroon":       "#800000",
	"darkgreen":    "#006400",
	"teal":         "#008080",
}

// Parse converts a CSS color keyword or a #rgb / #rrggbb hex string into an
// opaque RGBA color.
func Parse(s string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[key]; ok {
		key = hex
	}
	if !strings.HasPrefix(key, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	c, err := colorful.Hex(key)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}

	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}
