package engine

import "github.com/hailam/chessmind/internal/board"

// HistoryCapacity is how many of the engine's own moves are remembered.
const HistoryCapacity = 2

// MoveHistory is a bounded FIFO of the most recent moves the engine played.
// It lives as long as the Engine that owns it.
type MoveHistory struct {
	moves    []board.Move
	capacity int
}

// NewMoveHistory creates an empty history holding at most capacity moves.
func NewMoveHistory(capacity int) *MoveHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &MoveHistory{
		moves:    make([]board.Move, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a move, evicting the oldest entry once the history is full.
func (h *MoveHistory) Add(m board.Move) {
	if len(h.moves) == h.capacity {
		copy(h.moves, h.moves[1:])
		h.moves = h.moves[:len(h.moves)-1]
	}
	h.moves = append(h.moves, m)
}

// Len returns the number of remembered moves.
func (h *MoveHistory) Len() int {
	return len(h.moves)
}

// Moves returns the remembered moves, oldest first.
func (h *MoveHistory) Moves() []board.Move {
	return append([]board.Move(nil), h.moves...)
}

// CountFrom returns how many remembered moves started on sq.
func (h *MoveHistory) CountFrom(sq board.Square) int {
	n := 0
	for _, m := range h.moves {
		if m.From == sq {
			n++
		}
	}
	return n
}
