package engine

import "github.com/hailam/chessmind/internal/board"

// PieceValues maps a piece kind to its material value in centipawns.
// Indexed by board.PieceType; index 0 is the empty square.
type PieceValues [7]int

// DefaultPieceValues is the standard table. The king value is a sentinel
// that keeps king "material" out of reach of any real exchange.
var DefaultPieceValues = PieceValues{
	board.NoPieceType: 0,
	board.Pawn:        100,
	board.Knight:      300,
	board.Bishop:      300,
	board.Rook:        500,
	board.Queen:       900,
	board.King:        10000,
}

// Of returns the value of a piece kind.
func (v PieceValues) Of(pt board.PieceType) int {
	if int(pt) >= len(v) {
		return 0
	}
	return v[pt]
}
