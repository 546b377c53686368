package models

import (
	"fmt"
)

// Metrics are the four behavioral scores derived from a drawing session.
// Each score is an integer in [0,100].
type Metrics struct {
	LineSpeed         int `json:"lineSpeed"`
	LineSharpness     int `json:"lineSharpness"`
	ColorIntensity    int `json:"colorIntensity"`
	PatternRepetition int `json:"patternRepetition"`
}

// Validate checks that every score is within [0,100]
func (m *Metrics) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"line speed", m.LineSpeed},
		{"line sharpness", m.LineSharpness},
		{"color intensity", m.ColorIntensity},
		{"pattern repetition", m.PatternRepetition},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", f.name, f.value)
		}
	}
	return nil
}
