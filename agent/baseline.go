package agent

import (
	"context"
	"math"
	"time"

	"isolation/game"
	"isolation/searcher"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move.
type Random[M comparable] struct {
	rand *rand.Rand
	slot Slot[M]
}

// NewRandom returns a random player. A zero seed seeds from the clock.
func NewRandom[M comparable](seed uint64) *Random[M] {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random[M]{rand: rand.New(rand.NewSource(seed))}
}

func (r *Random[M]) Initialize(player game.Player) {}

func (r *Random[M]) GetAction(ctx context.Context, state game.State[M]) error {
	r.slot.Reset()
	actions := state.Actions()
	if len(actions) == 0 {
		return searcher.ErrNoLegalMoves
	}
	r.slot.Publish(actions[r.rand.Intn(len(actions))])
	return nil
}

func (r *Random[M]) Slot() *Slot[M] {
	return &r.slot
}

// Greedy plays the move with the best one ply score. Wins are taken and
// losses avoided whenever possible, ties keep the earliest move.
type Greedy[M comparable] struct {
	player game.Player
	score  func(game.Player) game.Evaluate
	eval   game.Evaluate
	slot   Slot[M]
}

// NewGreedy returns a greedy player. A nil score counts the player's own
// liberties.
func NewGreedy[M comparable](score func(game.Player) game.Evaluate) *Greedy[M] {
	if score == nil {
		score = ownLiberties
	}
	return &Greedy[M]{score: score}
}

func ownLiberties(player game.Player) game.Evaluate {
	return func(s game.Positional) float64 {
		return float64(len(s.Liberties(s.Loc(player))))
	}
}

func (g *Greedy[M]) Initialize(player game.Player) {
	g.player = player
	g.eval = g.score(player)
}

func (g *Greedy[M]) GetAction(ctx context.Context, state game.State[M]) error {
	if g.eval == nil {
		panic("greedy player used before Initialize")
	}
	g.slot.Reset()
	actions := state.Actions()
	if len(actions) == 0 {
		return searcher.ErrNoLegalMoves
	}

	best, bestScore := actions[0], math.Inf(-1)
	for _, action := range actions {
		next := state.Result(action)
		var score float64
		if next.TerminalTest() {
			score = next.Utility(g.player)
		} else {
			score = g.eval(next)
		}
		if score > bestScore {
			best, bestScore = action, score
		}
	}
	g.slot.Publish(best)
	return nil
}

func (g *Greedy[M]) Slot() *Slot[M] {
	return &g.slot
}
