// Package input replays recorded pointer and toolbar events onto a drawing
// session. Events are JSON objects, one per line:
//
//	{"type":"down","x":10,"y":20,"t":0}
//	{"type":"move","x":14,"y":22,"t":16}
//	{"type":"up","t":32}
//	{"type":"color","color":"#ff0000"}
//	{"type":"save"}
//
// t is milliseconds since the start of the recording. An event without t
// happens at the latest time seen so far. Blank lines and lines starting
// with # are skipped.
package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rewired-gh/neurodraw/internal/logger"
	"github.com/rewired-gh/neurodraw/internal/models"
	"github.com/rewired-gh/neurodraw/internal/session"
)

// Event types.
const (
	Down  = "down"
	Move  = "move"
	Up    = "up"
	Leave = "leave"
	Color = "color"
	Size  = "size"
	Undo  = "undo"
	Redo  = "redo"
	Clear = "clear"
	Save  = "save"
)

const maxLineSize = 1 << 20

// ErrUnknownEvent is returned for an event type outside the list above.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is a single recorded input.
type Event struct {
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	T     *int64  `json:"t,omitempty"`
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

// Decode reads every event from r.
func Decode(r io.Reader) ([]Event, error) {
	var events []Event
	err := scan(r, func(e Event) error {
		events = append(events, e)
		return nil
	})
	return events, err
}

func scan(r io.Reader, fn func(Event) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(e); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}
	return nil
}

// Player feeds events into a session.
type Player struct {
	session *session.Session
	origin  time.Time
	last    time.Time

	// Saved collects every snapshot produced by save events, including
	// those the store failed to persist.
	Saved []*models.Snapshot
}

// NewPlayer returns a player whose event times are offsets from origin.
func NewPlayer(s *session.Session, origin time.Time) *Player {
	return &Player{session: s, origin: origin, last: origin}
}

// Apply dispatches one event.
func (p *Player) Apply(ctx context.Context, e Event) error {
	at := p.last
	if e.T != nil {
		at = p.origin.Add(time.Duration(*e.T) * time.Millisecond)
	}
	if at.After(p.last) {
		p.last = at
	}

	switch e.Type {
	case Down:
		return p.session.Begin(e.X, e.Y, at)
	case Move:
		return p.session.Extend(e.X, e.Y, at)
	case Up, Leave:
		p.session.End(at)
	case Color:
		return p.session.SetColor(e.Color)
	case Size:
		return p.session.SetBrushSize(e.Size)
	case Undo:
		p.session.Undo()
	case Redo:
		p.session.Redo()
	case Clear:
		p.session.Clear()
	case Save:
		snap, err := p.session.Save(ctx)
		if snap != nil {
			p.Saved = append(p.Saved, snap)
		}
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
	return nil
}

// Run streams events from r into the session, stopping at the first error.
// A stroke still in progress at the end of the input is committed.
func (p *Player) Run(ctx context.Context, r io.Reader) error {
	n := 0
	err := scan(r, func(e Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		n++
		return p.Apply(ctx, e)
	})
	if err != nil {
		return err
	}
	p.session.End(p.last)
	logger.Debug("Replayed %d events, %d snapshots saved", n, len(p.Saved))
	return nil
}
