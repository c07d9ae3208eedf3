package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/chessmind/internal/board"
)

// SearchInfo reports a completed iteration of the root search.
type SearchInfo struct {
	Depth   int
	Score   int
	MatePly int // plies to mate after Move, negative when White gets mated, 0 if none
	Move    board.Move
	Nodes   uint64
	Time    time.Duration
}

// Limits overrides the per-turn plan derived from the timer.
type Limits struct {
	Depth     int           // maximum depth (0 = from timer)
	MoveTime  time.Duration // hard time for this move (0 = from timer)
	MovesToGo int           // moves until the next time control (0 = from options)
}

// Options configures an Engine.
type Options struct {
	MaxDepth            int
	ReducedDepth        int
	DepthReductionRatio float64 // remaining/game-start below this uses ReducedDepth
	Pruning             bool
	TimePressure        bool
	MovesToGo           int
	Weights             EvaluationWeights
	Values              PieceValues
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		MaxDepth:            3,
		ReducedDepth:        2,
		DepthReductionRatio: 0.33,
		Pruning:             true,
		MovesToGo:           DefaultMovesToGo,
		Weights:             DefaultWeights(),
		Values:              DefaultPieceValues,
	}
}

// Engine selects moves for one player. It remembers its own last moves, so
// use one Engine per side and per game. Not safe for concurrent SelectMove.
type Engine struct {
	opts     Options
	history  *MoveHistory
	eval     *Evaluator
	orderer  MoveOrderer
	searcher *Searcher

	// Callbacks
	OnInfo func(SearchInfo)
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.ReducedDepth <= 0 || opts.ReducedDepth > opts.MaxDepth {
		opts.ReducedDepth = opts.MaxDepth
	}
	history := NewMoveHistory(HistoryCapacity)
	eval := NewEvaluator(opts.Values, opts.Weights, history)
	return &Engine{
		opts:     opts,
		history:  history,
		eval:     eval,
		searcher: NewSearcher(eval, opts.Pruning),
	}
}

// History returns the engine's move history.
func (e *Engine) History() *MoveHistory {
	return e.history
}

// Evaluator returns the evaluator the engine scores with.
func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// Searcher returns the tree searcher.
func (e *Engine) Searcher() *Searcher {
	return e.searcher
}

// Stop stops the current search. SelectMove then returns the best move found.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// SelectMove picks a move for the side to move in pos within the timer's
// budget. pos is left exactly as it was passed in.
func (e *Engine) SelectMove(ctx context.Context, pos Position, timer Timer) (board.Move, error) {
	return e.SelectMoveWithLimits(ctx, pos, timer, Limits{})
}

// SelectMoveWithLimits is SelectMove with explicit depth or time overrides.
func (e *Engine) SelectMoveWithLimits(ctx context.Context, pos Position, timer Timer, limits Limits) (board.Move, error) {
	if pos.InCheckmate() {
		return board.NoMove, ErrNoLegalMoves
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, ErrNoLegalMoves
	}

	opts := e.opts
	if limits.MovesToGo > 0 {
		opts.MovesToGo = limits.MovesToGo
	}
	tm, err := NewTimeManager(timer, opts)
	if err != nil {
		log.Warn().Err(err).Int("depth", tm.Depth()).Msg("time budget unusable, searching without deadline")
	}

	maxDepth := tm.Depth()
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	deadline := tm.Deadline()
	if limits.MoveTime > 0 {
		deadline = time.Now().Add(limits.MoveTime)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	e.searcher.reset(ctx, deadline)

	best, err := e.think(pos, e.orderer.Order(moves), maxDepth, tm)
	if errors.Is(err, ErrSearchAborted) {
		log.Debug().Err(err).Str("move", best.String()).Msg("returning best move so far")
	}

	e.history.Add(best)
	return best, nil
}

// think runs iterative deepening over the ordered root moves. The incumbent
// survives across depths and is only replaced by a strictly better score.
func (e *Engine) think(pos Position, moves []board.Move, maxDepth int, tm *TimeManager) (board.Move, error) {
	white := pos.WhiteToMove()
	bestMove := moves[0]
	bestScore := Infinity
	if white {
		bestScore = -Infinity
	}
	bestReply := 0
	found := false

	for depth := 1; depth <= maxDepth; depth++ {
		for _, m := range moves {
			score, reply, ok := e.scoreRootMove(pos, m, depth, bestScore, tm.Pressure())
			if e.searcher.aborted {
				return bestMove, ErrSearchAborted
			}
			if !ok {
				continue
			}
			if !found || (white && score > bestScore) || (!white && score < bestScore) {
				bestMove, bestScore, bestReply, found = m, score, reply, true
			}
		}

		log.Debug().
			Int("depth", depth).
			Int("score", bestScore).
			Str("move", bestMove.String()).
			Uint64("nodes", e.searcher.Nodes()).
			Dur("elapsed", tm.Elapsed()).
			Msg("iteration complete")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:   depth,
				Score:   bestScore,
				MatePly: matePly(bestReply),
				Move:    bestMove,
				Nodes:   e.searcher.Nodes(),
				Time:    tm.Elapsed(),
			})
		}
	}
	return bestMove, nil
}

// scoreRootMove scores m as the phased evaluation gained by the moved piece
// plus the search value of the reply. The gain is the piece's score on its
// new square less its score on the old one, so a piece's material (and the
// king's sentinel value) does not favour moving that piece. The child window
// starts at the incumbent so replies that cannot beat it are cut; ok is
// false when the returned score is only such a bound.
func (e *Engine) scoreRootMove(pos Position, m board.Move, depth, incumbent int, pressure float64) (score, child int, ok bool) {
	white := pos.WhiteToMove()
	mover, _ := pos.PieceAt(m.From)
	before := e.eval.EvaluatePhased(pos, mover)

	e.searcher.play(pos, m, func() {
		moved, _ := pos.PieceAt(m.To)
		own := int(float64(e.eval.EvaluatePhased(pos, moved)-before) * pressure)

		alpha, beta := -Infinity, Infinity
		if white {
			alpha = incumbent - own
		} else {
			beta = incumbent - own
		}
		child = e.searcher.search(pos, depth-1, 1, !white, alpha, beta)

		score = own + child
		ok = (white && child > alpha) || (!white && child < beta)
	})
	return score, child, ok
}

// matePly turns a search value into a signed distance to mate.
func matePly(v int) int {
	switch {
	case v > MateScore/2:
		return MateScore - v
	case v < -MateScore/2:
		return -(MateScore + v)
	}
	return 0
}
