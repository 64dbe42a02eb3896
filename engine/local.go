package engine

import (
	"context"
	"fmt"
	"time"

	"isolation/experiments/metrics"
	"isolation/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultTimeLimit is the time a player gets per move.
const DefaultTimeLimit = 150 * time.Millisecond

type Option func(s *settings)

type settings struct {
	timeLimit time.Duration
	maxPlies  int
}

func WithTimeLimit(limit time.Duration) Option {
	return func(s *settings) {
		if limit > 0 {
			s.timeLimit = limit
		}
	}
}

func WithMaxPlies(plies int) Option {
	return func(s *settings) {
		if plies > 0 {
			s.maxPlies = plies
		}
	}
}

// Local plays two players against each other in this process. Each decision
// runs in its own goroutine; at the deadline its context is cancelled, the
// goroutine is awaited and the latest published move is played.
type Local[M comparable] struct {
	players [2]Player[M]
	settings
}

func NewLocal[M comparable](first, second Player[M], options ...Option) *Local[M] {
	e := &Local[M]{ // Default values
		players: [2]Player[M]{first, second},
		settings: settings{
			timeLimit: DefaultTimeLimit,
			maxPlies:  MaxPlies,
		},
	}
	for _, option := range options {
		option(&e.settings)
	}
	return e
}

func (e *Local[M]) Run(ctx context.Context, state game.State[M]) (metrics.GameMetric, []metrics.MoveMetric, error) {
	for i, p := range e.players {
		p.Initialize(game.Player(i))
	}

	gameMetric := metrics.GameMetric{Winner: -1, StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric
	log.Debug().Msgf("player %d is starting", state.Player())

	for step := 1; step <= e.maxPlies; step++ {
		if state.TerminalTest() {
			gameMetric.Winner = int(state.Player().Opponent())
			break
		}
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("game interrupted at ply %d: %w", state.PlyCount(), err)
		}

		mover := state.Player()
		move, searchMetric, err := e.decide(ctx, e.players[mover], state)
		if err == nil && !lo.Contains(state.Actions(), move) {
			err = fmt.Errorf("%w: %s", game.ErrIllegalMove, describe(state, move))
		}
		moveMetric := metrics.MoveMetric{Step: step, Player: int(mover), SearchMetric: searchMetric}
		if err != nil {
			if ctx.Err() != nil {
				return gameMetric, moveMetrics, fmt.Errorf("game interrupted at ply %d: %w", state.PlyCount(), ctx.Err())
			}
			log.Warn().Msgf("player %d forfeits at ply %d: %v", mover, state.PlyCount(), err)
			moveMetrics = append(moveMetrics, moveMetric)
			gameMetric.Winner = int(mover.Opponent())
			gameMetric.Forfeit = err.Error()
			break
		}

		moveMetric.Move = describe(state, move)
		moveMetrics = append(moveMetrics, moveMetric)
		state = state.Result(move)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	log.Debug().Msgf("game over after %d moves, winner: %d", gameMetric.TotalMoves, gameMetric.Winner)
	return gameMetric, moveMetrics, nil
}

func (e *Local[M]) decide(ctx context.Context, p Player[M], state game.State[M]) (M, metrics.SearchMetric, error) {
	var none M
	ctx, cancel := context.WithTimeout(ctx, e.timeLimit)
	defer cancel()

	p.Slot().Reset()
	done := make(chan error, 1)
	go func() {
		done <- p.GetAction(ctx, state)
	}()

	var err error
	select {
	case err = <-done: // Player finished early
	case <-ctx.Done():
		err = <-done
	}

	var searchMetric metrics.SearchMetric
	if m, ok := p.(Metered); ok {
		searchMetric = m.LastMetric()
	}

	move, ok := p.Slot().Latest()
	if !ok {
		if err != nil {
			return none, searchMetric, fmt.Errorf("%w: %w", ErrNoMove, err)
		}
		return none, searchMetric, ErrNoMove
	}
	if err != nil {
		log.Debug().Msgf("player %d returned %v after publishing a move", state.Player(), err)
	}
	return move, searchMetric, nil
}

func describe[M comparable](state game.State[M], move M) string {
	if d, ok := state.(interface{ Describe(M) string }); ok {
		return d.Describe(move)
	}
	return fmt.Sprint(move)
}
