package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RasterPrefix is the data-URI prefix of every stored raster.
const RasterPrefix = "data:image/png;base64,"

// Snapshot is a point-in-time save of the rendered surface and its metrics.
// Snapshots are immutable once written.
type Snapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Raster    string    `json:"raster"`
	Metrics   Metrics   `json:"metrics"`
}

// Validate checks that all snapshot fields are valid
func (s *Snapshot) Validate() error {
	if s.ID == "" {
		return errors.New("snapshot ID must not be empty")
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	if !strings.HasPrefix(s.Raster, RasterPrefix) || len(s.Raster) == len(RasterPrefix) {
		return errors.New("raster must be a non-empty PNG data URI")
	}
	if err := s.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics: %w", err)
	}
	return nil
}
