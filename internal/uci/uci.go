// Package uci speaks the Universal Chess Interface on top of the engine.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/chessmind/internal/board"
	"github.com/hailam/chessmind/internal/engine"
)

// noClock is used when "go" carries no time for the side to move.
const noClock = time.Hour

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	opts     engine.Options
	engine   *engine.Engine
	position *board.Position
	out      *writer

	// Largest remaining time seen per side this game, taken as the game's
	// starting time.
	gameStart [2]time.Duration

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

type writer struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *writer) send(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, format+"\n", args...)
}

// New creates a new UCI protocol handler writing responses to out.
func New(opts engine.Options, out io.Writer) *UCI {
	return &UCI{
		opts:     opts,
		engine:   engine.New(opts),
		position: board.NewPosition(),
		out:      &writer{w: out},
	}
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.out.send("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.out.send("%s", u.position.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			log.Debug().Str("command", cmd).Msg("unknown uci command")
		}
	}

	u.wait()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.out.send("id name chessmind")
	u.out.send("id author chessmind developers")
	u.out.send("")
	u.out.send("option name MaxDepth type spin default %d min 1 max 8", u.opts.MaxDepth)
	u.out.send("option name Pruning type check default %t", u.opts.Pruning)
	u.out.send("option name TimePressure type check default %t", u.opts.TimePressure)
	u.out.send("uciok")
}

// handleNewGame starts a fresh engine, forgetting its move history.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine = engine.New(u.opts)
	u.position = board.NewPosition()
	u.gameStart = [2]time.Duration{}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			log.Warn().Err(err).Msg("invalid position")
			u.out.send("info string invalid fen: %v", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			m, err := board.ParseMove(moveStr, pos)
			if err != nil {
				log.Warn().Err(err).Msg("invalid move in position command")
				u.out.send("info string invalid move: %s", moveStr)
				return
			}
			pos.Play(m)
		}
	}
	u.position = pos
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	ms := func(i int) time.Duration {
		n, _ := strconv.Atoi(args[i])
		return time.Duration(n) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		hasValue := i+1 < len(args)
		switch args[i] {
		case "infinite":
			opts.Infinite = true
			continue
		case "depth", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			if !hasValue {
				continue
			}
		default:
			continue
		}

		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(args[i+1])
		case "movetime":
			opts.MoveTime = ms(i + 1)
		case "wtime":
			opts.WTime = ms(i + 1)
		case "btime":
			opts.BTime = ms(i + 1)
		case "winc":
			opts.WInc = ms(i + 1)
		case "binc":
			opts.BInc = ms(i + 1)
		}
		i++
	}

	return opts
}

// clockFor builds the timer for the side to move. The side's largest
// remaining time seen this game stands in for the game's starting time.
func (u *UCI) clockFor(opts GoOptions) *engine.Clock {
	side := u.position.SideToMove()
	remaining, inc := opts.WTime, opts.WInc
	if side == board.Black {
		remaining, inc = opts.BTime, opts.BInc
	}

	if remaining <= 0 || opts.Infinite {
		return engine.NewClock(noClock, noClock, 0)
	}
	u.gameStart[side] = max(u.gameStart[side], remaining)
	return engine.NewClock(u.gameStart[side], remaining, inc)
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	opts := parseGoOptions(args)
	clock := u.clockFor(opts)
	limits := engine.Limits{
		Depth:     opts.Depth,
		MoveTime:  opts.MoveTime,
		MovesToGo: opts.MovesToGo,
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	eng := u.engine
	whiteToMove := pos.WhiteToMove()
	done := u.searchDone
	eng.OnInfo = func(info engine.SearchInfo) { u.sendInfo(info, whiteToMove) }

	clock.StartTurn()
	go func() {
		defer close(done)
		defer cancel()

		m, err := eng.SelectMoveWithLimits(ctx, pos, clock, limits)
		clock.StopTurn()
		if errors.Is(err, engine.ErrNoLegalMoves) {
			u.out.send("bestmove 0000")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("search failed")
			u.out.send("bestmove 0000")
			return
		}
		log.Debug().Bool("white", whiteToMove).Str("move", m.String()).Msg("bestmove")
		u.out.send("bestmove %s", m)
	}()
}

// sendInfo outputs search info in UCI format. Scores are reported from the
// side to move's point of view.
func (u *UCI) sendInfo(info engine.SearchInfo, whiteToMove bool) {
	score, mate := info.Score, info.MatePly
	if !whiteToMove {
		score, mate = -score, -mate
	}

	parts := []string{fmt.Sprintf("depth %d", info.Depth)}
	if mate != 0 {
		parts = append(parts, fmt.Sprintf("score mate %d", mateMoves(mate)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, "pv "+info.Move.String())

	u.out.send("info %s", strings.Join(parts, " "))
}

// mateMoves converts a signed ply distance to full moves.
func mateMoves(plies int) int {
	if plies < 0 {
		return -((-plies + 1) / 2)
	}
	return (plies + 1) / 2
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.cancel()
	u.engine.Stop()
	u.wait()
}

func (u *UCI) wait() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleSetOption processes "setoption name <name> value <value>".
// The engine is rebuilt with the new options, which clears its history.
func (u *UCI) handleSetOption(args []string) {
	u.handleStop()

	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "maxdepth":
		if d, err := strconv.Atoi(val); err == nil && d >= 1 {
			u.opts.MaxDepth = d
		}
	case "pruning":
		u.opts.Pruning = strings.EqualFold(val, "true")
	case "timepressure":
		u.opts.TimePressure = strings.EqualFold(val, "true")
	default:
		log.Debug().Strs("name", name).Msg("unknown option")
		return
	}
	u.engine = engine.New(u.opts)
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 4
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	nodes := u.position.Copy().Perft(depth)
	elapsed := time.Since(start)

	u.out.send("Nodes: %d", nodes)
	u.out.send("Time: %v", elapsed)
	if elapsed > 0 {
		u.out.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
