package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chessmind/internal/board"
)

func TestMinimaxMatchesAlphaBeta(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
	}{
		{board.StartFEN, 1},
		{board.StartFEN, 2},
		{board.StartFEN, 3},
		{queenTakeFEN, 3},
		{mateInOneFEN, 3},
		{blackTakesFEN, 3},
		{kiwipeteFEN, 2},
		{middlegameFEN, 2},
	}

	for _, tt := range tests {
		for _, maximizing := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/d%d/max=%v", tt.fen, tt.depth, maximizing), func(t *testing.T) {
				s := NewSearcher(newTestEvaluator(nil), true)
				pos := mustFEN(t, tt.fen)

				mm := s.Minimax(pos, tt.depth, maximizing)
				mmNodes := s.Nodes()
				ab := s.AlphaBeta(pos, tt.depth, maximizing)

				assert.Equal(t, mm, ab)
				assert.LessOrEqual(t, s.Nodes(), mmNodes)
			})
		}
	}
}

func TestSearchRestoresPosition(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipeteFEN, middlegameFEN} {
		pos := mustFEN(t, fen)
		s := NewSearcher(newTestEvaluator(nil), true)

		s.AlphaBeta(pos, 3, pos.WhiteToMove())
		assert.Equal(t, fen, pos.FEN())

		s.Minimax(pos, 2, pos.WhiteToMove())
		assert.Equal(t, fen, pos.FEN())
	}
}

func TestSearchTerminalScores(t *testing.T) {
	s := NewSearcher(newTestEvaluator(nil), true)

	assert.Equal(t, MateScore, s.AlphaBeta(mustFEN(t, matedFEN), 2, false))
	assert.Equal(t, 0, s.AlphaBeta(mustFEN(t, stalemateFEN), 2, false))
	assert.Equal(t, MateScore-1, s.AlphaBeta(mustFEN(t, mateInOneFEN), 1, true))
}

func TestSearchPrefersFasterMate(t *testing.T) {
	s := NewSearcher(newTestEvaluator(nil), true)
	pos := mustFEN(t, mateInOneFEN)

	// Deeper search still finds the mate at ply 1.
	assert.Equal(t, MateScore-1, s.AlphaBeta(pos, 3, true))
}
