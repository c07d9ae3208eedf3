// Package selfplay pits the engine against itself and records the games.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/chessmind/internal/board"
	"github.com/hailam/chessmind/internal/engine"
	"github.com/hailam/chessmind/internal/storage"
)

const playerName = "chessmind"

// Methods for game ends the rules library does not know about.
const (
	methodTimeout  = "Timeout"
	methodMaxPlies = "MaxPlies"
)

// Options configures a self-play run.
type Options struct {
	Games       int
	Workers     int
	RandomPlies int // opening plies chosen at random for variety
	MaxPlies    int // games still running after this many plies are drawn
	GameTime    time.Duration
	Increment   time.Duration
	Engine      engine.Options
}

// Recorder persists finished games. *storage.Storage implements it.
type Recorder interface {
	RecordGame(rec *storage.GameRecord) error
}

// Runner plays self-play games in parallel.
type Runner struct {
	opts Options
	rec  Recorder
	mu   sync.Mutex // serializes rec
}

// NewRunner creates a runner. rec may be nil to keep games in memory only.
func NewRunner(opts Options, rec Recorder) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{opts: opts, rec: rec}
}

// Run plays all games and returns them with a summary. The first failing
// game cancels the rest.
func (r *Runner) Run(ctx context.Context) ([]*storage.GameRecord, Summary, error) {
	records := make([]*storage.GameRecord, r.opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := range records {
		g.Go(func() error {
			rec, err := r.PlayGame(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			records[i] = rec

			log.Info().
				Int("game", i).
				Str("result", rec.Result).
				Str("method", rec.Method).
				Int("plies", rec.Plies).
				Dur("duration", rec.Duration).
				Msg("game finished")
			return r.record(rec)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	return records, Summarize(records), nil
}

func (r *Runner) record(rec *storage.GameRecord) error {
	if r.rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.RecordGame(rec)
}

// PlayGame plays one game from the starting position. The position is
// tracked by the engine's board and mirrored into a chess.Game that owns
// the draw rules and the PGN.
func (r *Runner) PlayGame(ctx context.Context) (*storage.GameRecord, error) {
	start := time.Now()
	pos := board.NewPosition()
	game := chess.NewGame(chess.UseNotation(chess.UCINotation{}))

	engines := [2]*engine.Engine{engine.New(r.opts.Engine), engine.New(r.opts.Engine)}
	clocks := [2]*engine.Clock{
		engine.NewClock(r.opts.GameTime, r.opts.GameTime, r.opts.Increment),
		engine.NewClock(r.opts.GameTime, r.opts.GameTime, r.opts.Increment),
	}

	rec := &storage.GameRecord{
		White:    playerName,
		Black:    playerName,
		StartFEN: board.StartFEN,
		PlayedAt: start,
	}

	for game.Outcome() == chess.NoOutcome {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.opts.MaxPlies > 0 && rec.Plies >= r.opts.MaxPlies {
			if err := game.Draw(chess.DrawOffer); err != nil {
				return nil, err
			}
			rec.Method = methodMaxPlies
			break
		}

		side := pos.SideToMove()
		var m board.Move
		if rec.Plies < r.opts.RandomPlies {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			m = moves[frand.Intn(len(moves))]
		} else {
			clock := clocks[side]
			clock.StartTurn()
			var err error
			m, err = engines[side].SelectMove(ctx, pos, clock)
			used := clock.StopTurn()
			if errors.Is(err, engine.ErrNoLegalMoves) {
				break
			}
			if err != nil {
				return nil, err
			}
			rec.MoveTimes = append(rec.MoveTimes, used.Milliseconds())

			if clock.Flagged() {
				game.Resign(chessColor(side))
				rec.Method = methodTimeout
				break
			}
		}

		if err := game.MoveStr(m.String()); err != nil {
			return nil, fmt.Errorf("mirror move %s at %s: %w", m, pos.FEN(), err)
		}
		pos.Play(m)
		rec.Plies++
		claimDraw(game)
	}

	rec.Result = game.Outcome().String()
	if rec.Method == "" {
		rec.Method = fmt.Sprint(game.Method())
	}
	rec.PGN = game.String()
	rec.Duration = time.Since(start)
	return rec, nil
}

// claimDraw claims a threefold repetition or fifty-move draw as soon as
// either becomes available.
func claimDraw(game *chess.Game) {
	for _, method := range game.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = game.Draw(method)
			return
		}
	}
}

func chessColor(c board.Color) chess.Color {
	if c == board.White {
		return chess.White
	}
	return chess.Black
}
