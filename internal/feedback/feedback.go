// Package feedback turns drawing metrics into an emotional-state reading and
// a drawing suggestion.
package feedback

import "github.com/rewired-gh/neurodraw/internal/models"

// State names an emotional reading.
type State string

const (
	Anxious   State = "anxious"
	Calm      State = "calm"
	Focused   State = "focused"
	Energetic State = "energetic"
	Balanced  State = "balanced"
)

// Reading is a classified state with its explanation.
type Reading struct {
	State       State  `json:"state"`
	Description string `json:"description"`
}

var descriptions = map[State]string{
	Anxious:   "Lots of sharp corners and fast lines today. That's fine. Try drawing a line that travels outward.",
	Calm:      "You drew gently and without hurry. Want to add some energy with bright colors?",
	Focused:   "Your drawing repeats its elements a lot. You are concentrated and methodical today.",
	Energetic: "Bright colors point to high energy and enthusiasm. You are full of ideas!",
	Balanced:  "Your drawing balances energy and calm. You are in harmony with yourself.",
}

// Classify picks the first matching state; rules are checked in order.
func Classify(m models.Metrics) Reading {
	var s State
	switch {
	case m.LineSharpness > 70 && m.LineSpeed > 60:
		s = Anxious
	case m.LineSharpness < 30 && m.LineSpeed < 40:
		s = Calm
	case m.PatternRepetition > 70:
		s = Focused
	case m.ColorIntensity > 70:
		s = Energetic
	default:
		s = Balanced
	}
	return Reading{State: s, Description: descriptions[s]}
}

const (
	smootherLines = "Try drawing smoother, rounder lines. It helps bring the tension down."
	slowDown      = "Try drawing slower and enjoy every movement. It helps you settle."
	brighterColor = "Add some bright colors to your drawing. They help express emotion."
)

// General are the suggestions offered when no metric stands out.
var General = []string{
	"Try adding a few flowing lines. They help you calm down.",
	"What if you connected these parts? It helps gather your thoughts.",
	"Add a bright color in the center. It sparks creative thinking.",
	"Draw a spiral from the center outward. It helps you focus.",
	"Try a few parallel lines. They give your thoughts structure.",
	"Draw something round. Round shapes feel pleasant to make.",
	"Add a little purple. It is a calm, focused color.",
	"Try some zigzag lines. They wake the hand up.",
	"Draw something that joins the left and right halves of the page.",
	"Add a little green. It helps relax and release tension.",
}

// Suggest returns guidance for m. When no metric calls for a specific tip,
// n selects one of the General suggestions (wrapping around).
func Suggest(m models.Metrics, n int) string {
	switch {
	case m.LineSharpness > 70:
		return smootherLines
	case m.LineSpeed > 70:
		return slowDown
	case m.ColorIntensity < 30:
		return brighterColor
	}
	if n < 0 {
		n = -n
	}
	return General[n%len(General)]
}
