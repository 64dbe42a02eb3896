package searcher

import (
	"context"
	"errors"
	"time"
)

// MaxPly bounds the search depth and the killer table.
const MaxPly = 128

// The context and its deadline are polled once per pollInterval node
// expansions.
const pollInterval = 1024

var (
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrAborted      = errors.New("search aborted")
)

// SearchContext carries the counters of one agent across all of its
// decisions. It must not be shared between agents.
type SearchContext struct {
	Nodes         uint64 // Nodes expanded
	Layers        uint64 // Sum of completed iteration depths
	Cutoffs       uint64 // Beta cutoffs at max nodes
	KillerCutoffs uint64 // Cutoffs produced by a stored killer move

	ctx      context.Context
	deadline time.Time // Zero without a deadline
	horizon  bool      // A depth limited leaf was evaluated
	aborted  bool
}

func NewSearchContext() *SearchContext {
	return &SearchContext{}
}

func (sc *SearchContext) begin(ctx context.Context) {
	sc.ctx = ctx
	sc.deadline, _ = ctx.Deadline()
	sc.horizon = false
	sc.aborted = sc.expired()
}

func (sc *SearchContext) end() {
	sc.ctx = nil
	sc.deadline = time.Time{}
}

// expired reports whether the context is done or its deadline has passed.
// The clock is read directly since the timer cancelling the context may not
// get to run while the search holds the only processor.
func (sc *SearchContext) expired() bool {
	return sc.ctx.Err() != nil || (!sc.deadline.IsZero() && !time.Now().Before(sc.deadline))
}

// expand counts a node and reports whether the search has to unwind.
func (sc *SearchContext) expand() bool {
	if sc.aborted {
		return true
	}
	sc.Nodes++
	if sc.Nodes%pollInterval == 0 && sc.expired() {
		sc.aborted = true
	}
	return sc.aborted
}

// done is expired for callers without a running search.
func done(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	deadline, ok := ctx.Deadline()
	return ok && !time.Now().Before(deadline)
}
