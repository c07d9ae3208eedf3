package board

import (
	"fmt"
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Position is a mutable game state backed by a dragontoothmg board.
// Moves applied with MakeMove are kept on a stack and must be taken back
// in reverse order with UndoMove.
type Position struct {
	b     dragontoothmg.Board
	stack []undoEntry
}

type undoEntry struct {
	move    Move
	unapply func()
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{b: dragontoothmg.ParseFen(StartFEN)}
}

// Copy returns an independent copy of the position.
// Outstanding MakeMove calls are not carried over.
func (p *Position) Copy() *Position {
	return &Position{b: p.b}
}

// LegalMoves returns all legal moves for the side to move.
func (p *Position) LegalMoves() []Move {
	raw := p.b.GenerateLegalMoves()
	us, them := p.sides()

	moves := make([]Move, len(raw))
	for i, rm := range raw {
		moves[i] = convertMove(rm, us, them)
	}
	return moves
}

func convertMove(rm dragontoothmg.Move, us, them *dragontoothmg.Bitboards) Move {
	from, to := Square(rm.From()), Square(rm.To())
	m := Move{
		From:      from,
		To:        to,
		Promotion: PieceType(rm.Promote()),
		raw:       rm,
	}

	if victim := typeAt(them, to); victim != NoPieceType {
		m.Capture, m.Captured = true, victim
	} else if us.Pawns&from.bit() != 0 && from.File() != to.File() {
		// En passant: a diagonal pawn move onto an empty square.
		m.Capture, m.Captured = true, Pawn
	}
	return m
}

// MakeMove applies a legal move. It must be paired with UndoMove.
func (p *Position) MakeMove(m Move) {
	unapply := p.b.Apply(m.raw)
	p.stack = append(p.stack, undoEntry{move: m, unapply: unapply})
}

// UndoMove takes back the most recent MakeMove. Undoing anything other than
// the last move made is a programming error and panics.
func (p *Position) UndoMove(m Move) {
	n := len(p.stack)
	if n == 0 || p.stack[n-1].move != m {
		panic(fmt.Sprintf("board: UndoMove(%s) does not match the last move made", m))
	}
	top := p.stack[n-1]
	p.stack = p.stack[:n-1]
	top.unapply()
}

// Play commits a move permanently, as a host does when a game advances.
func (p *Position) Play(m Move) {
	if len(p.stack) > 0 {
		panic("board: Play called with moves still outstanding")
	}
	p.b.Apply(m.raw)
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.b.OurKingInCheck()
}

// InCheckmate returns true if the side to move is checkmated.
func (p *Position) InCheckmate() bool {
	return p.b.OurKingInCheck() && len(p.b.GenerateLegalMoves()) == 0
}

// InStalemate returns true if the side to move has no legal moves and is not in check.
func (p *Position) InStalemate() bool {
	return !p.b.OurKingInCheck() && len(p.b.GenerateLegalMoves()) == 0
}

// WhiteToMove reports whether White is the side to move.
func (p *Position) WhiteToMove() bool {
	return p.b.Wtomove
}

// SideToMove returns the color of the side to move.
func (p *Position) SideToMove() Color {
	if p.b.Wtomove {
		return White
	}
	return Black
}

// PieceAt returns the piece on sq, if any.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if pt := typeAt(&p.b.White, sq); pt != NoPieceType {
		return Piece{Type: pt, Color: White, Square: sq}, true
	}
	if pt := typeAt(&p.b.Black, sq); pt != NoPieceType {
		return Piece{Type: pt, Color: Black, Square: sq}, true
	}
	return Piece{Square: sq}, false
}

// Pieces returns every piece on the board, White's first, each side ordered
// by kind and then square.
func (p *Position) Pieces() []Piece {
	pieces := make([]Piece, 0, p.PieceCount())
	pieces = appendPieces(pieces, &p.b.White, White)
	pieces = appendPieces(pieces, &p.b.Black, Black)
	return pieces
}

// PieceCount returns the number of pieces on the board, kings included.
func (p *Position) PieceCount() int {
	return bits.OnesCount64(p.b.White.All | p.b.Black.All)
}

// FEN returns the FEN string for the position.
func (p *Position) FEN() string {
	return p.b.ToFen()
}

// String returns the FEN string for the position.
func (p *Position) String() string {
	return p.FEN()
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UndoMove(m)
	}
	return nodes
}

func (p *Position) sides() (us, them *dragontoothmg.Bitboards) {
	if p.b.Wtomove {
		return &p.b.White, &p.b.Black
	}
	return &p.b.Black, &p.b.White
}

func typeAt(bb *dragontoothmg.Bitboards, sq Square) PieceType {
	mask := sq.bit()
	if bb.All&mask == 0 {
		return NoPieceType
	}
	switch {
	case bb.Pawns&mask != 0:
		return Pawn
	case bb.Knights&mask != 0:
		return Knight
	case bb.Bishops&mask != 0:
		return Bishop
	case bb.Rooks&mask != 0:
		return Rook
	case bb.Queens&mask != 0:
		return Queen
	case bb.Kings&mask != 0:
		return King
	}
	return NoPieceType
}

func appendPieces(pieces []Piece, bb *dragontoothmg.Bitboards, c Color) []Piece {
	sets := [6]uint64{bb.Pawns, bb.Knights, bb.Bishops, bb.Rooks, bb.Queens, bb.Kings}
	for i, set := range sets {
		for set != 0 {
			sq := Square(bits.TrailingZeros64(set))
			pieces = append(pieces, Piece{Type: PieceTypes[i], Color: c, Square: sq})
			set &= set - 1
		}
	}
	return pieces
}
