package engine

import (
	"github.com/samber/lo"

	"github.com/hailam/chessmind/internal/board"
)

// MoveOrderer puts capturing moves ahead of quiet ones so alpha-beta sees
// the likely refutations first.
type MoveOrderer struct{}

// Order returns a new slice with every capture before every non-capture.
// Relative order inside both groups is preserved and moves is left untouched.
func (MoveOrderer) Order(moves []board.Move) []board.Move {
	isCapture := func(m board.Move, _ int) bool { return m.Capture }
	ordered := make([]board.Move, 0, len(moves))
	ordered = append(ordered, lo.Filter(moves, isCapture)...)
	return append(ordered, lo.Reject(moves, isCapture)...)
}
