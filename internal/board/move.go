package board

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Move is a legal move produced by a Position.
// Capture information is resolved at generation time so callers never need
// to look back at the board to classify it.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Capture   bool
	Captured  PieceType // kind of the captured piece, NoPieceType for quiet moves

	raw dragontoothmg.Move
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// Equal reports whether two moves share origin, destination and promotion.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.From >= NoSquare || m.To >= NoSquare {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string and resolves it against the
// legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoMove, fmt.Errorf("invalid promotion piece in move: %s", s)
		}
	}

	for _, m := range pos.LegalMoves() {
		if m.From == from && m.To == to && m.Promotion == promo {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("illegal move %s in position %s", s, pos.FEN())
}
