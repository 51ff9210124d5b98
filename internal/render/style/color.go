package style

import (
	"fmt"
	"image/color"
	"strings"
)

// ParseHex converts a hex color string (#RGB, #RRGGBB or #RRGGBBAA) into a
// straight-alpha NRGBA, opaque by default. Invalid input returns an error and
// black. NRGBA keeps the channels non-premultiplied so opacity can be applied
// before compositing.
func ParseHex(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8
	a = 0xFF
	switch len(raw) {
	case 3:
		if _, err := fmt.Sscanf(raw, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{A: 0xFF}, fmt.Errorf("parse hex color %q: %w", s, err)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(raw, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{A: 0xFF}, fmt.Errorf("parse hex color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(raw, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{A: 0xFF}, fmt.Errorf("parse hex color %q: %w", s, err)
		}
	default:
		return color.NRGBA{A: 0xFF}, fmt.Errorf("parse hex color %q: unsupported length", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// WithOpacity scales a color's alpha channel by an opacity percentage in
// [0,100], matching the hex→rgba composition used for fills.
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	c.A = uint8(float64(c.A)*opacity/100 + 0.5)
	return c
}

// HexWithOpacity is the common path: parse then apply opacity. Parse failures
// fall back to opaque black so a bad config degrades visibly instead of
// aborting the frame.
func HexWithOpacity(s string, opacity float64) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		c = color.NRGBA{A: 0xFF}
	}
	return WithOpacity(c, opacity)
}

// Lerp interpolates between two colors per channel, t in [0,1].
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
