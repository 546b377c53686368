// Package models defines the core domain entities for the neurodraw pipeline.
// These models represent captured drawing samples, committed strokes, the
// derived behavioral metrics and the snapshots persisted on save.
// All models include built-in validation to ensure data integrity throughout the application.
//
// Terminology:
//   - Point: a single captured pointer sample carrying its own paint style.
//   - Stroke: one continuous gesture from pointer down to pointer up.
//   - Snapshot: a saved raster paired with the metrics at save time.
package models

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/rewired-gh/neurodraw/internal/geom"
)

// ErrInvalidColor is returned when a color is not a "#rrggbb" hex string.
var ErrInvalidColor = errors.New("invalid color")

// RGBHex is a lowercase "#rrggbb" color string.
type RGBHex string

// ParseColor normalizes a "#rgb" or "#rrggbb" string into an RGBHex.
func ParseColor(s string) (RGBHex, error) {
	r, g, b, err := geom.ParseHex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return RGBHex(fmt.Sprintf("#%02x%02x%02x", r, g, b)), nil
}

// RGB returns the color channels. Malformed values decode as black.
func (c RGBHex) RGB() (r, g, b uint8) {
	r, g, b, _ = geom.ParseHex(string(c))
	return r, g, b
}

// Color returns c as an opaque color.RGBA.
func (c RGBHex) Color() color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Point is a single captured sample. Points are immutable once recorded.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color RGBHex  `json:"color"`
	Size  float64 `json:"size"`
}

// Vec returns the position of p.
func (p Point) Vec() geom.Vec {
	return geom.Vec{X: p.X, Y: p.Y}
}

// SameStyle reports whether p and o are painted with the same color and size.
func (p Point) SameStyle(o Point) bool {
	return p.Color == o.Color && p.Size == o.Size
}

// Validate checks that all point fields are valid
func (p *Point) Validate() error {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return errors.New("point coordinates must be finite")
	}
	if _, err := ParseColor(string(p.Color)); err != nil {
		return err
	}
	if !(p.Size > 0) || math.IsInf(p.Size, 0) {
		return errors.New("point size must be a positive finite number")
	}
	return nil
}
