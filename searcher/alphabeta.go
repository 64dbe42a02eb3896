package searcher

import (
	"context"
	"fmt"
	"math"

	"isolation/game"
)

// Result is the outcome of one depth limited search.
type Result[M comparable] struct {
	Move    M
	Value   float64 // From the searching player's perspective
	Depth   int
	Horizon bool // Some leaf was cut off by the depth limit
}

// AlphaBeta is a depth limited minimax search with alpha-beta pruning and
// killer move ordering. Terminal states score their utility, states at the
// depth limit are scored by evaluate.
type AlphaBeta[M comparable] struct {
	player   game.Player
	evaluate game.Evaluate
	killers  *KillerTable[M]
}

func NewAlphaBeta[M comparable](player game.Player, evaluate game.Evaluate, killers *KillerTable[M]) *AlphaBeta[M] {
	if evaluate == nil {
		panic("alpha-beta needs an evaluation function")
	}
	if killers == nil {
		killers = NewKillerTable[M]()
	}
	return &AlphaBeta[M]{
		player:   player,
		evaluate: evaluate,
		killers:  killers,
	}
}

// Search returns the best root action at the given depth. Root actions are
// tried in state order and ties keep the earliest action, so a root where
// every action loses still returns the first one.
func (ab *AlphaBeta[M]) Search(ctx context.Context, sc *SearchContext, state game.State[M], depth int) (Result[M], error) {
	actions := state.Actions()
	if len(actions) == 0 {
		return Result[M]{}, ErrNoLegalMoves
	}
	if depth < 1 {
		depth = 1
	}

	sc.begin(ctx)
	defer sc.end()

	best := Result[M]{Move: actions[0], Value: math.Inf(-1), Depth: depth}
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, action := range actions {
		v := ab.minValue(sc, state.Result(action), depth-1, 1, alpha, beta)
		if sc.aborted {
			cause := ctx.Err()
			if cause == nil {
				cause = context.DeadlineExceeded
			}
			return Result[M]{}, fmt.Errorf("%w at depth %d: %v", ErrAborted, depth, cause)
		}
		if v > best.Value {
			best.Move, best.Value = action, v
		}
		alpha = max(alpha, best.Value)
	}
	best.Horizon = sc.horizon
	return best, nil
}

func (ab *AlphaBeta[M]) maxValue(sc *SearchContext, state game.State[M], depth, ply int, alpha, beta float64) float64 {
	if sc.expand() {
		return 0
	}
	if state.TerminalTest() {
		return state.Utility(ab.player)
	}
	if depth == 0 {
		sc.horizon = true
		return ab.evaluate(state)
	}

	v := math.Inf(-1)
	for _, action := range ab.killers.Order(ply, state.Actions()) {
		v = max(v, ab.minValue(sc, state.Result(action), depth-1, ply+1, alpha, beta))
		if sc.aborted {
			return 0
		}
		if v >= beta {
			sc.Cutoffs++
			if ab.killers.IsKiller(ply, action) {
				sc.KillerCutoffs++
			}
			ab.killers.Add(ply, action)
			return v
		}
		alpha = max(alpha, v)
	}
	return v
}

func (ab *AlphaBeta[M]) minValue(sc *SearchContext, state game.State[M], depth, ply int, alpha, beta float64) float64 {
	if sc.expand() {
		return 0
	}
	if state.TerminalTest() {
		return state.Utility(ab.player)
	}
	if depth == 0 {
		sc.horizon = true
		return ab.evaluate(state)
	}

	v := math.Inf(1)
	for _, action := range ab.killers.Order(ply, state.Actions()) {
		v = min(v, ab.maxValue(sc, state.Result(action), depth-1, ply+1, alpha, beta))
		if sc.aborted {
			return 0
		}
		if v <= alpha {
			return v
		}
		beta = min(beta, v)
	}
	return v
}
