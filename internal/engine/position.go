// Package engine selects moves for a chess position: an iterative-deepening
// root driver over a minimax / alpha-beta search, a capture-first move
// orderer and a per-piece composite evaluation.
package engine

import "github.com/hailam/chessmind/internal/board"

// Position is the rules-engine view the search works on.
// MakeMove and UndoMove must be strictly paired, last in first out.
type Position interface {
	LegalMoves() []board.Move
	MakeMove(m board.Move)
	UndoMove(m board.Move)
	InCheck() bool
	InCheckmate() bool
	WhiteToMove() bool
	PieceAt(sq board.Square) (board.Piece, bool)
	Pieces() []board.Piece
}

// Timer reports the clock of the side the engine is playing.
type Timer interface {
	MillisecondsRemaining() int
	MillisecondsElapsedThisTurn() int
	GameStartMilliseconds() int
}
