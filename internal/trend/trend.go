// Package trend derives the progress feed shown for stored snapshots.
package trend

import (
	"time"

	"github.com/rewired-gh/neurodraw/internal/models"
)

// Emotion is the coarse color-driven mood of a drawing.
type Emotion string

const (
	Excited  Emotion = "excited"
	Balanced Emotion = "balanced"
	Calm     Emotion = "calm"
)

// Point is one entry of the progress feed.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Calmness  int       `json:"calmness"`
	Energy    int       `json:"energy"`
	Focus     int       `json:"focus"`
	Emotion   Emotion   `json:"emotion"`
}

// FromMetrics maps a single metrics record onto the feed scales.
func FromMetrics(ts time.Time, m models.Metrics) Point {
	calmness := 50
	if m.LineSharpness < 50 {
		calmness = 100 - m.LineSharpness
	}

	emotion := Calm
	switch {
	case m.ColorIntensity > 70:
		emotion = Excited
	case m.ColorIntensity > 40:
		emotion = Balanced
	}

	return Point{
		Timestamp: ts,
		Calmness:  calmness,
		Energy:    m.LineSpeed,
		Focus:     100 - m.PatternRepetition,
		Emotion:   emotion,
	}
}

// FromSnapshots builds the feed in the order the snapshots are given.
func FromSnapshots(snapshots []models.Snapshot) []Point {
	points := make([]Point, 0, len(snapshots))
	for _, s := range snapshots {
		points = append(points, FromMetrics(s.Timestamp, s.Metrics))
	}
	return points
}

// Composite is the combined height used when plotting a point.
func (p Point) Composite() float64 {
	return float64(p.Calmness+p.Energy+p.Focus) / 300
}
