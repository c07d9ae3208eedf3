package engine

import (
	"github.com/hailam/chessmind/internal/board"
)

// Score bounds. Mate scores are ply-adjusted so shorter mates rank higher.
const (
	Infinity  = 1 << 30
	MateScore = 1_000_000
)

// Evaluator scores positions in white-positive centipawns, one piece at a time.
type Evaluator struct {
	values  PieceValues
	weights EvaluationWeights
	history *MoveHistory
}

// NewEvaluator creates an evaluator. history may be nil.
func NewEvaluator(values PieceValues, weights EvaluationWeights, history *MoveHistory) *Evaluator {
	return &Evaluator{values: values, weights: weights, history: history}
}

// Weights returns the base weights.
func (e *Evaluator) Weights() EvaluationWeights {
	return e.weights
}

// census holds the board-wide aggregates every per-piece score draws from.
// It is computed once per evaluation.
type census struct {
	moves      []board.Move
	pieces     []board.Piece
	kinds      [64]board.PieceType
	fromCount  [64]int
	capturing  [64]int
	exposure   [64]int
	inCheck    bool
	sideToMove board.Color
	pieceCount int
}

func (e *Evaluator) takeCensus(pos Position) *census {
	c := &census{
		moves:      pos.LegalMoves(),
		pieces:     pos.Pieces(),
		inCheck:    pos.InCheck(),
		sideToMove: board.White,
	}
	if !pos.WhiteToMove() {
		c.sideToMove = board.Black
	}
	c.pieceCount = len(c.pieces)

	for _, p := range c.pieces {
		c.kinds[p.Square] = p.Type
	}
	for _, m := range c.moves {
		c.fromCount[m.From]++
		if m.Capture {
			c.capturing[m.From] += e.values.Of(m.Captured)
			c.exposure[m.To] += e.values.Of(c.kinds[m.From])
		}
	}
	return c
}

// Components is the unweighted breakdown of a piece's score.
type Components struct {
	Material    float64
	Mobility    float64
	KingSafety  float64
	Capturing   float64
	Captured    float64
	Advancement float64
	Repetition  float64
}

func (e *Evaluator) components(c *census, p board.Piece) Components {
	sign := float64(p.Color.Sign())
	sq := p.Square

	var comp Components
	comp.Material = float64(e.values.Of(p.Type)) * sign
	comp.Mobility = float64(c.fromCount[sq]) * sign
	if c.inCheck && p.Color == c.sideToMove {
		comp.KingSafety = -sign
	}
	comp.Capturing = float64(c.capturing[sq]) * sign
	comp.Captured = float64(c.exposure[sq]) * sign
	if p.Type != board.King {
		comp.Advancement = float64(sq.RelativeRank(p.Color)) * sign
	}
	if e.history != nil {
		comp.Repetition = float64(e.history.CountFrom(sq)) * sign
	}
	return comp
}

func (e *Evaluator) score(c *census, p board.Piece, w EvaluationWeights) int {
	comp := e.components(c, p)
	total := w.Material*comp.Material +
		w.Mobility*comp.Mobility +
		w.KingSafety*comp.KingSafety +
		w.Capturing*comp.Capturing +
		w.Captured*comp.Captured +
		w.Advancement*comp.Advancement +
		w.Repetition*comp.Repetition
	return int(total)
}

// Components returns the raw component values for piece in pos.
func (e *Evaluator) Components(pos Position, piece board.Piece) Components {
	return e.components(e.takeCensus(pos), piece)
}

// Evaluate returns the score of a single piece with the base weights.
func (e *Evaluator) Evaluate(pos Position, piece board.Piece) int {
	return e.score(e.takeCensus(pos), piece, e.weights)
}

// EvaluatePhased returns the score of a single piece with the weights of the
// position's game phase applied.
func (e *Evaluator) EvaluatePhased(pos Position, piece board.Piece) int {
	c := e.takeCensus(pos)
	return e.score(c, piece, e.weights.Phased(PhaseOf(c.pieceCount)))
}

// EvaluateBoard returns the sum of Evaluate over every piece on the board.
func (e *Evaluator) EvaluateBoard(pos Position) int {
	return e.sum(e.takeCensus(pos))
}

func (e *Evaluator) sum(c *census) int {
	total := 0
	for _, p := range c.pieces {
		total += e.score(c, p, e.weights)
	}
	return total
}

// leaf scores a node the search does not expand. A side with no legal moves
// is mated or stalemated, otherwise the board sum is returned.
func (e *Evaluator) leaf(pos Position, ply int) int {
	c := e.takeCensus(pos)
	if len(c.moves) == 0 {
		return terminalScore(c.inCheck, c.sideToMove, ply)
	}
	return e.sum(c)
}

func terminalScore(inCheck bool, toMove board.Color, ply int) int {
	if !inCheck {
		return 0
	}
	// The side to move is mated.
	return -toMove.Sign() * (MateScore - ply)
}
