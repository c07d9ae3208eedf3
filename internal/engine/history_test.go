package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chessmind/internal/board"
)

func TestMoveHistoryEvictsOldest(t *testing.T) {
	h := NewMoveHistory(HistoryCapacity)
	m1 := board.Move{From: board.E2, To: board.E4}
	m2 := board.Move{From: board.G1, To: board.F3}
	m3 := board.Move{From: board.F1, To: board.C4}

	h.Add(m1)
	assert.Equal(t, 1, h.Len())
	h.Add(m2)
	assert.Equal(t, []board.Move{m1, m2}, h.Moves())

	h.Add(m3)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []board.Move{m2, m3}, h.Moves())
}

func TestMoveHistoryCountFrom(t *testing.T) {
	h := NewMoveHistory(HistoryCapacity)
	h.Add(board.Move{From: board.E2, To: board.E3})
	h.Add(board.Move{From: board.E2, To: board.E4})

	assert.Equal(t, 2, h.CountFrom(board.E2))
	assert.Equal(t, 0, h.CountFrom(board.E3))
}

func TestMoveHistoryMovesIsCopy(t *testing.T) {
	h := NewMoveHistory(HistoryCapacity)
	h.Add(board.Move{From: board.E2, To: board.E4})

	moves := h.Moves()
	moves[0] = board.NoMove
	assert.Equal(t, board.E2, h.Moves()[0].From)
}
