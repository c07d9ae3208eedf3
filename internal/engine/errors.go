package engine

import "errors"

var (
	// ErrNoLegalMoves is returned by SelectMove when the side to move has
	// no legal move (checkmate or stalemate). The host decides what it means.
	ErrNoLegalMoves = errors.New("engine: no legal moves")

	// ErrInvalidTimeBudget reports a timer with negative or zero values that
	// cannot be turned into a depth or deadline.
	ErrInvalidTimeBudget = errors.New("engine: invalid time budget")

	// ErrSearchAborted reports a search stopped by its deadline, its context
	// or Stop before the iteration finished.
	ErrSearchAborted = errors.New("engine: search aborted")
)
