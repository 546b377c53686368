package models

import (
	"errors"
	"fmt"
	"time"
)

// Stroke is the ordered sequence of points captured between one pointer down
// and the matching pointer up. A committed stroke is never empty.
type Stroke struct {
	ID        string    `json:"id"`
	Points    []Point   `json:"points"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Validate checks that all stroke fields are valid
func (s *Stroke) Validate() error {
	if s.ID == "" {
		return errors.New("stroke ID must not be empty")
	}
	if len(s.Points) == 0 {
		return errors.New("stroke must contain at least one point")
	}
	for i := range s.Points {
		if err := s.Points[i].Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	if s.EndedAt.Before(s.StartedAt) {
		return errors.New("ended at must be >= started at")
	}
	return nil
}

// Duration returns how long the gesture lasted.
func (s *Stroke) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}
