package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessmind/internal/board"
)

func newTestEvaluator(h *MoveHistory) *Evaluator {
	return NewEvaluator(DefaultPieceValues, DefaultWeights(), h)
}

func TestEvaluateBoardEqualsPieceSum(t *testing.T) {
	h := NewMoveHistory(HistoryCapacity)
	h.Add(board.Move{From: board.E2, To: board.E4})
	ev := newTestEvaluator(h)

	fens := []string{board.StartFEN, kiwipeteFEN, queenTakeFEN, whiteInCheck, middlegameFEN, matedFEN}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			sum := 0
			for _, p := range pos.Pieces() {
				sum += ev.Evaluate(pos, p)
			}
			assert.Equal(t, sum, ev.EvaluateBoard(pos))
		})
	}
}

func TestMaterialCountedOncePerPiece(t *testing.T) {
	ev := NewEvaluator(DefaultPieceValues, EvaluationWeights{Material: 1}, nil)

	assert.Equal(t, 0, ev.EvaluateBoard(mustFEN(t, board.StartFEN)))
	// Pawn against queen, kings cancel.
	assert.Equal(t, 100-900, ev.EvaluateBoard(mustFEN(t, queenTakeFEN)))
}

func TestComponents(t *testing.T) {
	ev := newTestEvaluator(nil)
	pos := mustFEN(t, queenTakeFEN)

	pawn, ok := pos.PieceAt(board.E4)
	require.True(t, ok)
	c := ev.Components(pos, pawn)
	assert.Equal(t, 100.0, c.Material)
	assert.Equal(t, 2.0, c.Mobility, "e5 and exd5")
	assert.Equal(t, 900.0, c.Capturing)
	assert.Equal(t, 0.0, c.Captured)
	assert.Equal(t, 3.0, c.Advancement)
	assert.Equal(t, 0.0, c.KingSafety)

	queen, ok := pos.PieceAt(board.D5)
	require.True(t, ok)
	c = ev.Components(pos, queen)
	assert.Equal(t, -900.0, c.Material)
	assert.Equal(t, 0.0, c.Mobility, "black is not to move")
	assert.Equal(t, -100.0, c.Captured, "attacked by a pawn")
	assert.Equal(t, -3.0, c.Advancement)

	king, ok := pos.PieceAt(board.E1)
	require.True(t, ok)
	assert.Equal(t, 0.0, ev.Components(pos, king).Advancement)
}

func TestKingSafetyAppliesToSideInCheck(t *testing.T) {
	ev := newTestEvaluator(nil)
	pos := mustFEN(t, whiteInCheck)
	require.True(t, pos.InCheck())

	king, _ := pos.PieceAt(board.E1)
	rook, _ := pos.PieceAt(board.E2)
	assert.Equal(t, -1.0, ev.Components(pos, king).KingSafety)
	assert.Equal(t, 0.0, ev.Components(pos, rook).KingSafety)
}

func TestRepetitionPenalty(t *testing.T) {
	pos := mustFEN(t, board.StartFEN)
	knight, ok := pos.PieceAt(board.G1)
	require.True(t, ok)

	fresh := newTestEvaluator(NewMoveHistory(HistoryCapacity))
	before := fresh.Evaluate(pos, knight)

	h := NewMoveHistory(HistoryCapacity)
	h.Add(board.Move{From: board.G1, To: board.F3})
	h.Add(board.Move{From: board.F3, To: board.G1})
	h.Add(board.Move{From: board.G1, To: board.F3})
	repeated := newTestEvaluator(h)
	after := repeated.Evaluate(pos, knight)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.CountFrom(board.G1))
	assert.Less(t, after, before)
	assert.Equal(t, int(DefaultWeights().Repetition), after-before)
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		pieces int
		want   Phase
	}{
		{32, Opening},
		{25, Opening},
		{24, Middlegame},
		{13, Middlegame},
		{12, Endgame},
		{2, Endgame},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseOf(tt.pieces), "%d pieces", tt.pieces)
	}
}

func TestEvaluatePhasedScalesMaterialInOpening(t *testing.T) {
	w := EvaluationWeights{Material: 1, Phases: PhaseMultipliers{Opening: 2, Middlegame: 1, Endgame: 1}}
	ev := NewEvaluator(DefaultPieceValues, w, nil)
	pos := mustFEN(t, board.StartFEN)

	queen, _ := pos.PieceAt(board.D1)
	assert.Equal(t, 900, ev.Evaluate(pos, queen))
	assert.Equal(t, 1800, ev.EvaluatePhased(pos, queen))
}

func TestLeafScoresTerminalPositions(t *testing.T) {
	ev := newTestEvaluator(nil)

	assert.Equal(t, MateScore-3, ev.leaf(mustFEN(t, matedFEN), 3), "black is mated")
	assert.Equal(t, 0, ev.leaf(mustFEN(t, stalemateFEN), 3))

	pos := mustFEN(t, queenTakeFEN)
	assert.Equal(t, ev.EvaluateBoard(pos), ev.leaf(pos, 1))
}
