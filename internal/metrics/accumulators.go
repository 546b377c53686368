package metrics

import (
	"sort"
	"time"

	"github.com/rewired-gh/neurodraw/internal/geom"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// SpeedSample is a position stamped with the time it was captured.
type SpeedSample struct {
	Pos geom.Vec
	At  time.Time
}

// Accumulators are the session-scoped raw samples the metrics are derived
// from. They persist across strokes and are only emptied by Reset.
type Accumulators struct {
	speed   []SpeedSample
	angles  []float64
	colors  map[models.RGBHex]struct{}
	spatial []geom.Vec
}

// NewAccumulators returns empty accumulators.
func NewAccumulators() *Accumulators {
	return &Accumulators{colors: make(map[models.RGBHex]struct{})}
}

// Reset empties all four accumulators.
func (a *Accumulators) Reset() {
	a.speed = nil
	a.angles = nil
	a.colors = make(map[models.RGBHex]struct{})
	a.spatial = nil
}

// AddSpeed records a timed position.
func (a *Accumulators) AddSpeed(pos geom.Vec, at time.Time) {
	a.speed = append(a.speed, SpeedSample{Pos: pos, At: at})
}

// AddAngle records a normalized turn angle in [0,1].
func (a *Accumulators) AddAngle(angle float64) {
	a.angles = append(a.angles, angle)
}

// AddColor records a color as used. Duplicates are ignored.
func (a *Accumulators) AddColor(c models.RGBHex) {
	a.colors[c] = struct{}{}
}

// AddSpatial records a position for grid occupancy.
func (a *Accumulators) AddSpatial(pos geom.Vec) {
	a.spatial = append(a.spatial, pos)
}

// SpeedSamples returns the timed positions in capture order.
func (a *Accumulators) SpeedSamples() []SpeedSample {
	return a.speed
}

// AngleSamples returns the turn angles in capture order.
func (a *Accumulators) AngleSamples() []float64 {
	return a.angles
}

// Colors returns the distinct colors used, sorted.
func (a *Accumulators) Colors() []models.RGBHex {
	out := make([]models.RGBHex, 0, len(a.colors))
	for c := range a.colors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SpatialSamples returns the positions in capture order.
func (a *Accumulators) SpatialSamples() []geom.Vec {
	return a.spatial
}

// Len returns the number of samples held in each accumulator.
func (a *Accumulators) Len() (speed, angles, colors, spatial int) {
	return len(a.speed), len(a.angles), len(a.colors), len(a.spatial)
}
