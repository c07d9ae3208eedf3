package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hailam/chessmind/internal/board"
)

// checkInterval is how many nodes pass between deadline checks.
const checkInterval = 256

// Searcher runs the depth-limited tree search. Minimax and alpha-beta are the
// same recursion; pruning only toggles the cutoff.
type Searcher struct {
	eval    *Evaluator
	orderer MoveOrderer
	pruning bool

	ctx      context.Context
	deadline time.Time
	nodes    uint64
	aborted  bool
	stopFlag atomic.Bool
}

// NewSearcher creates a searcher scoring leaves with eval.
func NewSearcher(eval *Evaluator, pruning bool) *Searcher {
	return &Searcher{eval: eval, pruning: pruning, ctx: context.Background()}
}

// Stop signals a running search to stop. Safe to call from another goroutine.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Nodes returns the number of nodes visited since the last reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// reset prepares for a new turn.
func (s *Searcher) reset(ctx context.Context, deadline time.Time) {
	s.ctx = ctx
	s.deadline = deadline
	s.nodes = 0
	s.aborted = false
	s.stopFlag.Store(false)
}

// Minimax returns the unpruned search value of pos to the given depth.
func (s *Searcher) Minimax(pos Position, depth int, maximizing bool) int {
	return s.run(pos, depth, maximizing, false)
}

// AlphaBeta returns the pruned search value of pos to the given depth.
// It always equals Minimax for the same arguments.
func (s *Searcher) AlphaBeta(pos Position, depth int, maximizing bool) int {
	return s.run(pos, depth, maximizing, true)
}

func (s *Searcher) run(pos Position, depth int, maximizing, pruning bool) int {
	saved := s.pruning
	s.pruning = pruning
	defer func() { s.pruning = saved }()

	s.reset(context.Background(), time.Time{})
	return s.search(pos, depth, 0, maximizing, -Infinity, Infinity)
}

// search is fail-soft: a value outside (alpha, beta) is a bound on the true
// value, not the value itself.
func (s *Searcher) search(pos Position, depth, ply int, maximizing bool, alpha, beta int) int {
	s.nodes++
	if s.nodes%checkInterval == 0 && s.shouldStop() {
		s.aborted = true
	}
	if s.aborted {
		return 0
	}

	if depth <= 0 {
		return s.eval.leaf(pos, ply)
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos.InCheck(), colorToMove(pos), ply)
	}

	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range s.orderer.Order(moves) {
		var score int
		s.play(pos, m, func() {
			score = s.search(pos, depth-1, ply+1, !maximizing, alpha, beta)
		})
		if s.aborted {
			return 0
		}

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if s.pruning && beta <= alpha {
			break
		}
	}
	return best
}

// play makes m, runs fn and always takes m back.
func (s *Searcher) play(pos Position, m board.Move, fn func()) {
	pos.MakeMove(m)
	defer pos.UndoMove(m)
	fn()
}

func (s *Searcher) shouldStop() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.ctx.Err() != nil {
		return true
	}
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

func colorToMove(pos Position) board.Color {
	if pos.WhiteToMove() {
		return board.White
	}
	return board.Black
}
