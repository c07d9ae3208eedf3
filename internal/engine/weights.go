package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EvaluationWeights holds the coefficient of every evaluation component.
// A value is fixed once the Evaluator is built.
type EvaluationWeights struct {
	Material    float64          `yaml:"material"`
	Mobility    float64          `yaml:"mobility"`
	KingSafety  float64          `yaml:"king_safety"`
	Capturing   float64          `yaml:"capturing"`
	Captured    float64          `yaml:"captured"`
	Advancement float64          `yaml:"advancement"`
	Repetition  float64          `yaml:"repetition"`
	Phases      PhaseMultipliers `yaml:"phases"`
}

// PhaseMultipliers scale one component per game phase:
// material in the opening, mobility in the middlegame, king safety in the endgame.
type PhaseMultipliers struct {
	Opening    float64 `yaml:"opening"`
	Middlegame float64 `yaml:"middlegame"`
	Endgame    float64 `yaml:"endgame"`
}

// DefaultWeights returns the built-in weight profile.
func DefaultWeights() EvaluationWeights {
	return EvaluationWeights{
		Material:    1.0,
		Mobility:    5.0,
		KingSafety:  50.0,
		Capturing:   0.1,
		Captured:    -0.1,
		Advancement: 5.0,
		Repetition:  -25.0,
		Phases: PhaseMultipliers{
			Opening:    1.25,
			Middlegame: 1.5,
			Endgame:    2.0,
		},
	}
}

// Phase is a coarse classification of the position by piece count.
type Phase int

const (
	Opening Phase = iota
	Middlegame
	Endgame
)

// Piece count thresholds, kings included.
const (
	endgamePieces    = 12
	middlegamePieces = 24
)

// PhaseOf classifies a position by its total piece count.
func PhaseOf(pieceCount int) Phase {
	switch {
	case pieceCount <= endgamePieces:
		return Endgame
	case pieceCount <= middlegamePieces:
		return Middlegame
	default:
		return Opening
	}
}

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Middlegame:
		return "middlegame"
	case Endgame:
		return "endgame"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Phased returns a copy of w with the phase multiplier applied.
func (w EvaluationWeights) Phased(p Phase) EvaluationWeights {
	switch p {
	case Opening:
		w.Material *= w.Phases.Opening
	case Middlegame:
		w.Mobility *= w.Phases.Middlegame
	case Endgame:
		w.KingSafety *= w.Phases.Endgame
	}
	return w
}

// LoadWeights reads a YAML weight profile. Keys missing from the file keep
// their default values.
func LoadWeights(path string) (EvaluationWeights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return w, nil
}
