package engine

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// Time allocation defaults.
const (
	DefaultMovesToGo    = 30
	minMoveTime         = 10 * time.Millisecond
	maxRemainingPercent = 80
	minPressure         = 0.5
	maxPressure         = 2.0
)

// TimeManager turns a Timer into a search depth and a deadline for one turn.
type TimeManager struct {
	depth     int
	deadline  time.Time // zero when the budget could not be read
	pressure  float64
	startTime time.Time
}

// NewTimeManager plans one turn. A timer with negative readings or no game
// start yields ErrInvalidTimeBudget together with a usable fallback plan:
// reduced depth and no deadline.
func NewTimeManager(timer Timer, opts Options) (*TimeManager, error) {
	tm := &TimeManager{
		depth:     opts.MaxDepth,
		pressure:  1,
		startTime: time.Now(),
	}

	remaining := timer.MillisecondsRemaining()
	elapsed := timer.MillisecondsElapsedThisTurn()
	start := timer.GameStartMilliseconds()
	if remaining < 0 || elapsed < 0 || start <= 0 {
		tm.depth = opts.ReducedDepth
		return tm, fmt.Errorf("%w: remaining=%dms elapsed=%dms start=%dms",
			ErrInvalidTimeBudget, remaining, elapsed, start)
	}

	if float64(remaining)/float64(start) < opts.DepthReductionRatio {
		tm.depth = opts.ReducedDepth
	}

	mtg := opts.MovesToGo
	if mtg <= 0 {
		mtg = DefaultMovesToGo
	}
	left := time.Duration(remaining) * time.Millisecond
	budget := min(left/time.Duration(mtg), left*maxRemainingPercent/100)
	budget = max(budget, minMoveTime)
	tm.deadline = tm.startTime.Add(budget)

	if opts.TimePressure {
		tm.pressure = clamp(float64(remaining)/float64(max(elapsed, 1)), minPressure, maxPressure)
	}
	return tm, nil
}

// Depth returns the maximum iterative-deepening depth for the turn.
func (tm *TimeManager) Depth() int {
	return tm.depth
}

// Deadline returns the wall-clock limit for the turn, zero if unlimited.
func (tm *TimeManager) Deadline() time.Time {
	return tm.deadline
}

// Pressure returns the time-pressure scale for root scores (1 when disabled).
func (tm *TimeManager) Pressure() float64 {
	return tm.pressure
}

// Elapsed returns the time elapsed since the turn was planned.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clock is a wall-clock Timer for one side of a game.
// StartTurn and StopTurn bracket each of that side's moves.
type Clock struct {
	mu        sync.Mutex
	gameStart time.Duration
	remaining time.Duration
	increment time.Duration
	turnStart time.Time
	running   bool
}

// NewClock creates a stopped clock for a game of gameStart total time with
// remaining time left on it.
func NewClock(gameStart, remaining, increment time.Duration) *Clock {
	return &Clock{
		gameStart: gameStart,
		remaining: remaining,
		increment: increment,
	}
}

// StartTurn starts the clock running.
func (c *Clock) StartTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turnStart = time.Now()
	c.running = true
}

// StopTurn charges the time used this turn, adds the increment and returns
// the time used.
func (c *Clock) StopTurn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0
	}
	used := time.Since(c.turnStart)
	c.remaining -= used
	if c.remaining >= 0 {
		c.remaining += c.increment
	}
	c.running = false
	return used
}

// Flagged reports whether the clock has run out.
func (c *Clock) Flagged() bool {
	return c.left() < 0
}

// MillisecondsRemaining returns the time left, counting the running turn.
func (c *Clock) MillisecondsRemaining() int {
	return int(c.left().Milliseconds())
}

func (c *Clock) left() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	left := c.remaining
	if c.running {
		left -= time.Since(c.turnStart)
	}
	return left
}

// MillisecondsElapsedThisTurn returns the time spent on the running turn.
func (c *Clock) MillisecondsElapsedThisTurn() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return 0
	}
	return int(time.Since(c.turnStart).Milliseconds())
}

// GameStartMilliseconds returns the total time the game started with.
func (c *Clock) GameStartMilliseconds() int {
	return int(c.gameStart.Milliseconds())
}
