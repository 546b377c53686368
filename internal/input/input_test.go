package input

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/neurodraw/internal/models"
	"github.com/rewired-gh/neurodraw/internal/session"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	saved []*models.Snapshot
	err   error
}

func (f *fakeStore) Prepend(_ context.Context, s *models.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

func mustPlayer(t *testing.T, store session.Store) (*Player, *session.Session) {
	t.Helper()
	s, err := session.New(session.Options{
		Width:     100,
		Height:    100,
		BrushSize: 4,
		Store:     store,
		Now:       func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return NewPlayer(s, t0), s
}

func TestDecode(t *testing.T) {
	script := `
# warm-up stroke
{"type":"down","x":1,"y":2,"t":0}

{"type":"move","x":3,"y":4,"t":16}
{"type":"up","t":32}
{"type":"color","color":"#FF0000"}
`
	events, err := Decode(strings.NewReader(script))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []struct {
		typ  string
		x, y float64
		t    int64
		hasT bool
	}{
		{Down, 1, 2, 0, true},
		{Move, 3, 4, 16, true},
		{Up, 0, 0, 32, true},
		{Color, 0, 0, 0, false},
	}
	if len(events) != len(want) {
		t.Fatalf("decoded %d events, expected %d", len(events), len(want))
	}
	for i, w := range want {
		e := events[i]
		if e.Type != w.typ || e.X != w.x || e.Y != w.y || (e.T != nil) != w.hasT {
			t.Errorf("event %d = %+v, expected %+v", i, e, w)
			continue
		}
		if w.hasT && *e.T != w.t {
			t.Errorf("event %d t = %d, expected %d", i, *e.T, w.t)
		}
	}
	if events[3].Color != "#FF0000" {
		t.Errorf("color = %q, expected #FF0000", events[3].Color)
	}
}

func TestDecodeReportsLine(t *testing.T) {
	_, err := Decode(strings.NewReader("{\"type\":\"down\"}\n{broken\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Decode() error = %v, expected a line 2 error", err)
	}
}

func TestRunScript(t *testing.T) {
	script := `{"type":"down","x":10,"y":10,"t":0}
{"type":"move","x":20,"y":10,"t":10}
{"type":"move","x":20,"y":20,"t":20}
{"type":"up","t":30}
{"type":"color","color":"#00ff00"}
{"type":"size","size":8}
{"type":"down","x":50,"y":50,"t":100}
{"type":"move","x":60,"y":60,"t":110}
{"type":"leave","t":120}
{"type":"undo"}
{"type":"save"}
`
	store := &fakeStore{}
	p, s := mustPlayer(t, store)

	if err := p.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	strokes := s.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("expected 1 visible stroke after undo, got %d", len(strokes))
	}
	if len(strokes[0].Points) != 3 {
		t.Errorf("first stroke has %d points, expected 3", len(strokes[0].Points))
	}
	if !s.CanRedo() {
		t.Error("expected the undone stroke to be redoable")
	}
	if s.Color() != "#00ff00" || s.BrushSize() != 8 {
		t.Errorf("brush = %s/%v, expected #00ff00/8", s.Color(), s.BrushSize())
	}
	if len(p.Saved) != 1 || len(store.saved) != 1 {
		t.Errorf("saved %d snapshots (store %d), expected 1", len(p.Saved), len(store.saved))
	}
}

func TestRunCommitsTrailingStroke(t *testing.T) {
	script := `{"type":"down","x":10,"y":10,"t":0}
{"type":"move","x":30,"y":10,"t":40}`

	p, s := mustPlayer(t, nil)
	if err := p.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.Drawing() {
		t.Error("stroke should be committed at end of input")
	}
	strokes := s.Strokes()
	if len(strokes) != 1 || !strokes[0].EndedAt.Equal(t0.Add(40*time.Millisecond)) {
		t.Errorf("unexpected strokes: %+v", strokes)
	}
}

func TestDownWithoutTimeUsesLatestInstant(t *testing.T) {
	script := `{"type":"down","x":10,"y":10,"t":0}
{"type":"move","x":30,"y":10,"t":100}
{"type":"up"}
{"type":"down","x":50,"y":50}
{"type":"move","x":60,"y":50,"t":150}
{"type":"up"}`

	p, s := mustPlayer(t, nil)
	if err := p.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	strokes := s.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(strokes))
	}
	if want := t0.Add(100 * time.Millisecond); !strokes[0].EndedAt.Equal(want) || !strokes[1].StartedAt.Equal(want) {
		t.Errorf("times = %v / %v, expected both at %v", strokes[0].EndedAt, strokes[1].StartedAt, want)
	}
	if !strokes[1].EndedAt.Equal(t0.Add(150 * time.Millisecond)) {
		t.Errorf("second stroke ended at %v", strokes[1].EndedAt)
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		is    error
	}{
		{"unknown type", Event{Type: "wheel"}, ErrUnknownEvent},
		{"bad color", Event{Type: Color, Color: "red"}, models.ErrInvalidColor},
		{"bad size", Event{Type: Size, Size: -1}, session.ErrInvalidBrushSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := mustPlayer(t, nil)
			err := p.Apply(context.Background(), tt.event)
			if !errors.Is(err, tt.is) {
				t.Errorf("Apply() error = %v, expected %v", err, tt.is)
			}
		})
	}
}

func TestSaveFailureKeepsSnapshot(t *testing.T) {
	p, _ := mustPlayer(t, &fakeStore{err: errors.New("disk full")})

	err := p.Apply(context.Background(), Event{Type: Save})
	if !errors.Is(err, session.ErrPersist) {
		t.Errorf("Apply(save) error = %v, expected ErrPersist", err)
	}
	if len(p.Saved) != 1 {
		t.Errorf("expected the snapshot to be kept, got %d", len(p.Saved))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, s := mustPlayer(t, nil)
	err := p.Run(ctx, strings.NewReader(`{"type":"down","x":1,"y":1}`))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if len(s.Strokes()) != 0 {
		t.Error("no events should be applied after cancellation")
	}
}
