// Package metrics derives the four behavioral scores from the raw samples a
// drawing session accumulates.
//
// The scores are recomputed from scratch on every call; nothing is patched
// incrementally. Each raw value is rounded and clamped to [0,100]:
//
//	lineSpeed         = mean(distance / ms) × 100
//	lineSharpness     = mean(turn angle) × 100
//	colorIntensity    = mean((saturation + brightness) / 2) × 100
//	patternRepetition = 100 − (stddev / mean) × 50 over occupied grid cells
//
// Pattern repetition rewards uniform coverage of the surface; it is not a
// measure of literal shape repetition.
package metrics

import (
	"math"

	"github.com/rewired-gh/neurodraw/internal/geom"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// GridSize is the number of cells per axis used for pattern repetition.
const GridSize = 10

// minTimeDelta bounds the speed denominator, in milliseconds.
const minTimeDelta = 1e-6

// Bounds is the logical size of the drawing surface.
type Bounds struct {
	Width  float64
	Height float64
}

// Compute derives the metrics from acc. It is deterministic for a given
// accumulator content.
func Compute(acc *Accumulators, bounds Bounds) models.Metrics {
	return models.Metrics{
		LineSpeed:         score(LineSpeed(acc.SpeedSamples())),
		LineSharpness:     score(LineSharpness(acc.AngleSamples())),
		ColorIntensity:    score(ColorIntensity(acc.Colors())),
		PatternRepetition: score(PatternRepetition(acc.SpatialSamples(), bounds)),
	}
}

// LineSpeed averages pixels per millisecond across consecutive samples.
// Pairs with a non-positive time delta are skipped.
func LineSpeed(samples []SpeedSample) float64 {
	if len(samples) < 2 {
		return 0
	}

	total := 0.0
	count := 0
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		dt := float64(curr.At.Sub(prev.At)) / 1e6
		if dt <= 0 {
			continue
		}
		total += geom.Distance(prev.Pos, curr.Pos) / math.Max(dt, minTimeDelta)
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Min(100, total/float64(count)*100)
}

// LineSharpness is the mean normalized turn angle scaled to 100.
func LineSharpness(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range angles {
		sum += a
	}
	return math.Min(100, sum/float64(len(angles))*100)
}

// ColorIntensity averages saturation and brightness over distinct colors.
func ColorIntensity(colors []models.RGBHex) float64 {
	if len(colors) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range colors {
		s, b := geom.SaturationBrightness(c.RGB())
		total += (s + b) / 2
	}
	return math.Min(100, total/float64(len(colors))*100)
}

// PatternRepetition scores how evenly samples spread over the occupied cells
// of a GridSize×GridSize partition of the surface. Samples outside the
// surface are not counted.
func PatternRepetition(samples []geom.Vec, bounds Bounds) float64 {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return 0
	}

	var grid [GridSize][GridSize]int
	for _, p := range samples {
		gx := int(math.Floor(p.X / bounds.Width * GridSize))
		gy := int(math.Floor(p.Y / bounds.Height * GridSize))
		if gx < 0 || gx >= GridSize || gy < 0 || gy >= GridSize {
			continue
		}
		grid[gy][gx]++
	}

	sum, occupied := 0, 0
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x] > 0 {
				sum += grid[y][x]
				occupied++
			}
		}
	}
	if occupied == 0 {
		return 0
	}

	mean := float64(sum) / float64(occupied)
	variance := 0.0
	for y := range grid {
		for x := range grid[y] {
			if n := grid[y][x]; n > 0 {
				d := float64(n) - mean
				variance += d * d
			}
		}
	}
	stdDev := math.Sqrt(variance / float64(occupied))
	return math.Min(100, 100-(stdDev/mean)*50)
}

func score(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}
