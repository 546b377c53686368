// Package geom holds the small pure helpers the metrics pipeline is built on:
// planar distances, the turn angle between consecutive segments and the
// saturation/brightness decomposition of hex colors.
package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a color string is not "#rgb" or "#rrggbb".
var ErrInvalidHex = errors.New("invalid hex color")

// Vec is a point or displacement on the drawing surface.
type Vec struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// TurnAngle returns the turn at p2 when travelling p1 -> p2 -> p3, normalized
// so that a straight continuation is 0 and a full reversal is 1. The second
// return value is false when either segment has zero length.
func TurnAngle(p1, p2, p3 Vec) (float64, bool) {
	v1 := p2.Sub(p1)
	v2 := p3.Sub(p2)
	m1, m2 := v1.Len(), v2.Len()
	if m1 == 0 || m2 == 0 {
		return 0, false
	}

	cos := v1.Dot(v2) / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))
	degrees := math.Acos(cos) * 180 / math.Pi
	return degrees / 180, true
}

// ParseHex decodes "#rrggbb" or the "#rgb" shorthand into its channels.
func ParseHex(s string) (r, g, b uint8, err error) {
	h, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	v, perr := strconv.ParseUint(h, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// SaturationBrightness splits an RGB triple into HSV-style saturation and
// value, both in [0,1]. Black has saturation 0.
func SaturationBrightness(r, g, b uint8) (saturation, brightness float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)
	if hi == 0 {
		return 0, 0
	}
	saturation = float64(hi-lo) / float64(hi)
	brightness = float64(hi) / 255
	return saturation, brightness
}
