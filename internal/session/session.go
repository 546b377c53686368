// Package session is the drawing-session controller. It turns pointer input
// into strokes, paints them live, feeds the metric accumulators, owns the
// undo/redo history and produces snapshots on save.
//
// A Session is single-threaded: every method is expected to be called from
// the one goroutine that processes input events, in arrival order.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/neurodraw/internal/canvas"
	"github.com/rewired-gh/neurodraw/internal/geom"
	"github.com/rewired-gh/neurodraw/internal/history"
	"github.com/rewired-gh/neurodraw/internal/logger"
	"github.com/rewired-gh/neurodraw/internal/metrics"
	"github.com/rewired-gh/neurodraw/internal/models"
)

var (
	// ErrInvalidPoint is returned for non-finite coordinates.
	ErrInvalidPoint = errors.New("point coordinates must be finite")
	// ErrInvalidBrushSize is returned for a non-positive or non-finite brush size.
	ErrInvalidBrushSize = errors.New("brush size must be a positive finite number")
	// ErrPersist wraps a failed snapshot write. The snapshot returned alongside
	// it is still complete.
	ErrPersist = errors.New("failed to persist snapshot")
)

// Store receives saved snapshots.
type Store interface {
	Prepend(ctx context.Context, snapshot *models.Snapshot) error
}

// Options configures a new Session.
type Options struct {
	Width      int
	Height     int
	Background models.RGBHex
	Color      models.RGBHex
	BrushSize  float64
	Store      Store            // optional
	Now        func() time.Time // defaults to time.Now
}

// Session holds one drawing session's surface, history and accumulators.
type Session struct {
	surface *canvas.Surface
	history *history.History
	acc     *metrics.Accumulators
	bounds  metrics.Bounds

	color models.RGBHex
	size  float64

	active  *models.Stroke
	metrics models.Metrics

	store Store
	now   func() time.Time
}

// New creates a session with a blank surface and empty history.
func New(opts Options) (*Session, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", opts.Width, opts.Height)
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}
	if opts.Color == "" {
		opts.Color = "#000000"
	}
	if opts.BrushSize == 0 {
		opts.BrushSize = 5
	}
	background, err := models.ParseColor(string(opts.Background))
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		surface: canvas.New(opts.Width, opts.Height, background),
		history: history.New(),
		acc:     metrics.NewAccumulators(),
		bounds:  metrics.Bounds{Width: float64(opts.Width), Height: float64(opts.Height)},
		store:   opts.Store,
		now:     opts.Now,
	}
	if err := s.SetColor(string(opts.Color)); err != nil {
		return nil, err
	}
	if err := s.SetBrushSize(opts.BrushSize); err != nil {
		return nil, err
	}
	s.Recompute()
	return s, nil
}

// SetColor changes the color of subsequently captured points.
func (s *Session) SetColor(c string) error {
	parsed, err := models.ParseColor(c)
	if err != nil {
		return err
	}
	s.color = parsed
	return nil
}

// SetBrushSize changes the size of subsequently captured points.
func (s *Session) SetBrushSize(size float64) error {
	if !(size > 0) || math.IsInf(size, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidBrushSize, size)
	}
	s.size = size
	return nil
}

// Color returns the current paint color.
func (s *Session) Color() models.RGBHex {
	return s.color
}

// BrushSize returns the current brush size.
func (s *Session) BrushSize() float64 {
	return s.size
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	return s.active != nil
}

// Begin starts a new stroke at (x, y). A stroke still in progress is ended
// and committed first, so history and accumulators never disagree.
func (s *Session) Begin(x, y float64, at time.Time) error {
	if !finite(x, y) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPoint, x, y)
	}
	if s.active != nil {
		logger.Debug("Begin while stroke %s is in progress, ending it first", s.active.ID)
		s.End(at)
	}

	p := models.Point{X: x, Y: y, Color: s.color, Size: s.size}
	s.active = &models.Stroke{
		ID:        uuid.New().String(),
		Points:    []models.Point{p},
		StartedAt: at,
		EndedAt:   at,
	}

	s.acc.AddSpeed(p.Vec(), at)
	s.acc.AddSpatial(p.Vec())
	s.acc.AddColor(p.Color)
	s.surface.Dot(p.Vec(), p.Color, p.Size)
	return nil
}

// Extend appends (x, y) to the stroke in progress using the current color
// and size. It is ignored when no stroke is in progress.
func (s *Session) Extend(x, y float64, at time.Time) error {
	if s.active == nil {
		return nil
	}
	if !finite(x, y) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPoint, x, y)
	}

	pts := s.active.Points
	prev := pts[len(pts)-1]
	p := models.Point{X: x, Y: y, Color: s.color, Size: s.size}
	s.active.Points = append(pts, p)
	s.active.EndedAt = at

	s.surface.Polyline([]geom.Vec{prev.Vec(), p.Vec()}, p.Color, p.Size)
	s.acc.AddSpeed(p.Vec(), at)
	s.acc.AddSpatial(p.Vec())

	if n := len(s.active.Points); n >= 3 {
		p1, p2 := s.active.Points[n-3], s.active.Points[n-2]
		if angle, ok := geom.TurnAngle(p1.Vec(), p2.Vec(), p.Vec()); ok {
			s.acc.AddAngle(angle)
		}
	}
	return nil
}

// End commits the stroke in progress and recomputes the metrics. It is a
// no-op when no stroke is in progress.
func (s *Session) End(at time.Time) {
	if s.active == nil {
		return
	}
	stroke := *s.active
	s.active = nil
	if at.After(stroke.EndedAt) {
		stroke.EndedAt = at
	}

	s.history.Commit(stroke)
	s.Recompute()
	logger.Debug("Committed stroke %s (%d points, %v)", stroke.ID, len(stroke.Points), stroke.Duration())
}

// Undo steps the history back one stroke and repaints the surface. A stroke
// in progress is committed first.
func (s *Session) Undo() bool {
	s.finishActive()
	if !s.history.Undo() {
		return false
	}
	s.history.Replay(s.surface)
	logger.Debug("Undo: cursor now %d of %d", s.history.Cursor(), s.history.Len())
	return true
}

// Redo restores the next undone stroke and repaints the surface. A stroke
// in progress is committed first.
func (s *Session) Redo() bool {
	s.finishActive()
	if !s.history.Redo() {
		return false
	}
	s.history.Replay(s.surface)
	logger.Debug("Redo: cursor now %d of %d", s.history.Cursor(), s.history.Len())
	return true
}

func (s *Session) finishActive() {
	if s.active != nil {
		s.End(s.active.EndedAt)
	}
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// Clear blanks the surface, empties the history and resets the accumulators.
func (s *Session) Clear() {
	s.active = nil
	s.surface.Clear()
	s.history.Reset()
	s.acc.Reset()
	s.Recompute()
	logger.Debug("Session cleared")
}

// Strokes returns the strokes currently shown on the surface.
func (s *Session) Strokes() []models.Stroke {
	active := s.history.Active()
	out := make([]models.Stroke, len(active))
	copy(out, active)
	return out
}

// Metrics returns the metrics from the last recompute.
func (s *Session) Metrics() models.Metrics {
	return s.metrics
}

// Recompute derives the metrics from the accumulators and caches them.
func (s *Session) Recompute() models.Metrics {
	s.metrics = metrics.Compute(s.acc, s.bounds)
	return s.metrics
}

// Samples reports how many samples the accumulators hold.
func (s *Session) Samples() (speed, angles, colors, spatial int) {
	return s.acc.Len()
}

// Surface returns the raster the session paints onto.
func (s *Session) Surface() *canvas.Surface {
	return s.surface
}

// Save captures the raster and freshly computed metrics into a snapshot and
// hands it to the store. The snapshot is returned even when the store write
// fails; that failure is reported as an error wrapping ErrPersist.
func (s *Session) Save(ctx context.Context) (*models.Snapshot, error) {
	m := s.Recompute()
	speed, angles, colors, spatial := s.acc.Len()
	logger.Debug("Saving from %d speed, %d angle, %d color, %d spatial samples", speed, angles, colors, spatial)
	raster, err := s.surface.DataURI()
	if err != nil {
		return nil, fmt.Errorf("failed to capture raster: %w", err)
	}

	snapshot := &models.Snapshot{
		ID:        uuid.New().String(),
		Timestamp: s.now(),
		Raster:    raster,
		Metrics:   m,
	}

	if s.store == nil {
		return snapshot, nil
	}
	if err := s.store.Prepend(ctx, snapshot); err != nil {
		logger.Warn("Failed to store snapshot %s: %v", snapshot.ID, err)
		return snapshot, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	logger.Info("Saved snapshot %s (speed=%d sharpness=%d intensity=%d repetition=%d)",
		snapshot.ID, m.LineSpeed, m.LineSharpness, m.ColorIntensity, m.PatternRepetition)
	return snapshot, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
