// Package color produces the "#RRGGBB" colors attached to recipe tags.
package color

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"regexp"
	"strings"
)

// Generator returns a new "#RRGGBB" color each call. The tag service takes
// one as a dependency so tests can supply a deterministic sequence.
type Generator func() string

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Random returns a uniformly random color.
func Random() string {
	return fmt.Sprintf("#%02X%02X%02X", rand.IntN(256), rand.IntN(256), rand.IntN(256))
}

// ForName derives a stable, readable color from a name, so reseeding the
// same tag yields the same color.
func ForName(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	sum := h.Sum32()

	hue := float64(sum % 360)
	// Spread lightness a little so names with close hues stay distinct.
	lightness := 0.45 + float64((sum>>9)%20)/100
	r, g, b := hslToRGB(hue, 0.6, lightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Sequence returns a Generator cycling through colors. Used by tests.
func Sequence(colors ...string) Generator {
	i := 0
	return func() string {
		c := colors[i%len(colors)]
		i++
		return c
	}
}

// Valid reports whether s is a "#RRGGBB" hex color.
func Valid(s string) bool {
	return hexPattern.MatchString(s)
}

// Normalize uppercases a valid color; invalid input is returned unchanged.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if !Valid(s) {
		return s
	}
	return strings.ToUpper(s)
}

// hslToRGB converts HSL color space to RGB.
// h: hue (0-360), s: saturation (0-1), l: lightness (0-1).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	h /= 360.0

	var r1, g1, b1 float64
	if s == 0 {
		r1, g1, b1 = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r1 = hueToRGB(p, q, h+1.0/3.0)
		g1 = hueToRGB(p, q, h)
		b1 = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(r1 * 255), uint8(g1 * 255), uint8(b1 * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
