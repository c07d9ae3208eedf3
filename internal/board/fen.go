package board

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
// The move counters are optional; they default to "0 1".
func ParseFEN(fen string) (pos *Position, err error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("invalid FEN: need 4 to 6 fields, got %d", len(parts))
	}
	if len(parts) == 4 {
		parts = append(parts, "0")
	}
	if len(parts) == 5 {
		parts = append(parts, "1")
	}

	if err := validatePlacement(parts[0]); err != nil {
		return nil, err
	}

	if parts[1] != "w" && parts[1] != "b" {
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if parts[3] != "-" {
		if _, err := ParseSquare(parts[3]); err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
	}

	// dragontoothmg panics on input it cannot index into.
	defer func() {
		if r := recover(); r != nil {
			pos, err = nil, fmt.Errorf("invalid FEN %q: %v", fen, r)
		}
	}()

	b := dragontoothmg.ParseFen(strings.Join(parts, " "))
	return &Position{b: b}, nil
}

// validatePlacement checks the piece placement field: eight ranks of eight
// squares, known piece letters, and exactly one king per side.
func validatePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid FEN: expected 8 ranks, got %d", len(ranks))
	}

	kings := map[byte]int{}
	for i, rank := range ranks {
		squares := 0
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			switch {
			case c >= '1' && c <= '8':
				squares += int(c - '0')
			case strings.IndexByte("pnbrqkPNBRQK", c) >= 0:
				squares++
				if c == 'k' || c == 'K' {
					kings[c]++
				}
			default:
				return fmt.Errorf("invalid FEN: unexpected character %q in rank %d", c, 8-i)
			}
		}
		if squares != 8 {
			return fmt.Errorf("invalid FEN: rank %d has %d squares", 8-i, squares)
		}
	}

	if kings['K'] != 1 || kings['k'] != 1 {
		return fmt.Errorf("invalid FEN: need exactly one king per side, got white=%d black=%d", kings['K'], kings['k'])
	}
	return nil
}
