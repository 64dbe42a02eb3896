package engine

import (
	"context"
	"errors"

	"isolation/agent"
	"isolation/experiments/metrics"
	"isolation/game"
)

// MaxPlies bounds a game. Knight's Isolation ends well before it.
const MaxPlies = 200

var ErrNoMove = errors.New("no move published before the deadline")

type Engine[M comparable] interface {
	// Run plays a game from state till a player is out of moves, forfeits or
	// the ply limit is reached
	Run(ctx context.Context, state game.State[M]) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

// Player is a seat at the table. GetAction publishes to the Slot and must
// return promptly once ctx is done.
type Player[M comparable] interface {
	Initialize(player game.Player)
	GetAction(ctx context.Context, state game.State[M]) error
	Slot() *agent.Slot[M]
}

// Metered players report the search metrics of their latest decision.
type Metered interface {
	LastMetric() metrics.SearchMetric
}
