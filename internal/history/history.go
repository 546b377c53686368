// Package history keeps the append-only log of committed strokes with a
// movable cursor for undo and redo.
//
// Strokes after the cursor exist only while they are redoable. Committing a
// new stroke discards them; there is no branching history.
package history

import (
	"github.com/rewired-gh/neurodraw/internal/geom"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// Painter is the surface a replay is drawn onto.
type Painter interface {
	Clear()
	Dot(at geom.Vec, c models.RGBHex, size float64)
	Polyline(path []geom.Vec, c models.RGBHex, size float64)
}

// History is the stroke log. The zero value is not usable; call New.
type History struct {
	strokes []models.Stroke
	idx     int
}

// New creates an empty history with the cursor at -1.
func New() *History {
	return &History{idx: -1}
}

// Commit appends s after the cursor, dropping any redoable strokes first.
func (h *History) Commit(s models.Stroke) {
	if h.idx < len(h.strokes)-1 {
		h.strokes = h.strokes[:h.idx+1]
	}
	h.strokes = append(h.strokes, s)
	h.idx = len(h.strokes) - 1
}

// Undo moves the cursor back one stroke. It reports false at the boundary.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.idx--
	return true
}

// Redo moves the cursor forward one stroke. It reports false at the boundary.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.idx++
	return true
}

// CanUndo reports whether at least one stroke is active.
func (h *History) CanUndo() bool {
	return h.idx >= 0
}

// CanRedo reports whether an undone stroke can be restored.
func (h *History) CanRedo() bool {
	return h.idx < len(h.strokes)-1
}

// Cursor returns the index of the last active stroke, or -1.
func (h *History) Cursor() int {
	return h.idx
}

// Len returns the number of strokes held, including redoable ones.
func (h *History) Len() int {
	return len(h.strokes)
}

// Active returns the strokes up to and including the cursor.
func (h *History) Active() []models.Stroke {
	return h.strokes[:h.idx+1]
}

// Reset empties the log.
func (h *History) Reset() {
	h.strokes = nil
	h.idx = -1
}

// Replay clears p and repaints every active stroke in commit order.
func (h *History) Replay(p Painter) {
	p.Clear()
	for _, s := range h.Active() {
		Paint(p, s)
	}
}

// Paint draws a single stroke the way it was captured: a mark at the first
// point, then one polyline per style run.
func Paint(p Painter, s models.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	first := s.Points[0]
	p.Dot(first.Vec(), first.Color, first.Size)
	for _, r := range Runs(s) {
		p.Polyline(r.Path, r.Color, r.Size)
	}
}

// Run is a contiguous part of a stroke painted with one color and size. Path
// starts at the point preceding the run so consecutive runs connect.
type Run struct {
	Color models.RGBHex
	Size  float64
	Path  []geom.Vec
}

// Runs splits a stroke into style runs. A stroke with fewer than two points
// has no runs.
func Runs(s models.Stroke) []Run {
	if len(s.Points) < 2 {
		return nil
	}

	var runs []Run
	cur := Run{Color: s.Points[0].Color, Size: s.Points[0].Size, Path: []geom.Vec{s.Points[0].Vec()}}
	for j := 1; j < len(s.Points); j++ {
		pt := s.Points[j]
		if !pt.SameStyle(s.Points[j-1]) {
			if len(cur.Path) > 1 {
				runs = append(runs, cur)
			}
			cur = Run{Color: pt.Color, Size: pt.Size, Path: []geom.Vec{s.Points[j-1].Vec()}}
		}
		cur.Path = append(cur.Path, pt.Vec())
	}
	return append(runs, cur)
}
