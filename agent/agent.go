package agent

import (
	"context"
	"fmt"

	"isolation/experiments/metrics"
	"isolation/game"
	"isolation/searcher"

	"golang.org/x/exp/rand"
)

type Option func(s *settings)

type settings struct {
	geometry          game.Geometry
	persistentKillers bool
	evaluation        func(game.Heuristic) game.Evaluate
	search            []searcher.Option
}

// WithMaxDepth caps the iterative deepening depth.
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithMaxDepth(depth))
	}
}

// WithNodeBudget stops deepening once a decision has expanded nodes nodes.
func WithNodeBudget(nodes uint64) Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithNodeBudget(nodes))
	}
}

// WithSeed makes the opening moves reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithSeed(seed))
	}
}

func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithRand(r))
	}
}

func WithInfo(info func(searcher.SearchInfo)) Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithInfo(info))
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.search = append(s.search, searcher.WithMetrics())
	}
}

// WithGeometry sets the board geometry used to validate locations and score
// centrality.
func WithGeometry(geometry game.Geometry) Option {
	return func(s *settings) {
		s.geometry = geometry
	}
}

// WithPersistentKillers keeps killer moves across decisions instead of
// clearing them before every decision.
func WithPersistentKillers() Option {
	return func(s *settings) {
		s.persistentKillers = true
	}
}

// WithEvaluation replaces the combined evaluation, e.g. with
// game.Heuristic.Baseline.
func WithEvaluation(evaluation func(game.Heuristic) game.Evaluate) Option {
	return func(s *settings) {
		if evaluation != nil {
			s.evaluation = evaluation
		}
	}
}

// Agent plays by iterative deepening alpha-beta search. It publishes the
// best move found so far to its Slot and keeps searching until the context
// ends or deepening cannot improve the move.
type Agent[M comparable] struct {
	player  game.Player
	ready   bool
	context *searcher.SearchContext
	killers *searcher.KillerTable[M]
	driver  *searcher.Driver[M]
	slot    Slot[M]
	settings
}

func New[M comparable](options ...Option) *Agent[M] {
	a := &Agent[M]{ // Default values
		settings: settings{
			geometry: game.Standard,
			evaluation: func(h game.Heuristic) game.Evaluate {
				return h.Combined
			},
		},
	}
	for _, option := range options {
		option(&a.settings)
	}
	return a
}

// Initialize seats the agent. It must be called before the first decision.
func (a *Agent[M]) Initialize(player game.Player) {
	a.player = player
	a.killers = searcher.NewKillerTable[M]()
	evaluate := a.evaluation(game.NewHeuristic(a.geometry, player))
	a.driver = searcher.NewDriver(player, evaluate, a.killers, a.search...)
	a.context = nil
	a.ready = true
}

// GetAction searches state and publishes every improvement to the Slot.
// The slot is emptied first, so it only ever holds a move for state.
func (a *Agent[M]) GetAction(ctx context.Context, state game.State[M]) error {
	if !a.ready {
		panic("agent used before Initialize")
	}
	if a.context == nil {
		a.context = searcher.NewSearchContext()
	}
	a.slot.Reset()

	if err := a.validate(state); err != nil {
		return err
	}
	if !a.persistentKillers {
		a.killers.Clear()
	}

	_, err := a.driver.ChooseMove(ctx, a.context, state, a.slot.Publish)
	return err
}

func (a *Agent[M]) validate(state game.State[M]) error {
	if g, ok := state.(interface{ Geometry() game.Geometry }); ok && g.Geometry() != a.geometry {
		return fmt.Errorf("%w: state is %v, agent expects %v", game.ErrGeometryMismatch, g.Geometry(), a.geometry)
	}
	for _, p := range []game.Player{a.player, a.player.Opponent()} {
		loc := state.Loc(p)
		if loc == game.NoLoc {
			continue
		}
		if err := a.geometry.Validate(loc); err != nil {
			return fmt.Errorf("player %d: %w", p, err)
		}
	}
	return nil
}

func (a *Agent[M]) Slot() *Slot[M] {
	return &a.slot
}

// Context returns the agent's search counters, nil before the first decision.
func (a *Agent[M]) Context() *searcher.SearchContext {
	return a.context
}

// Killers exposes the agent's killer table.
func (a *Agent[M]) Killers() *searcher.KillerTable[M] {
	return a.killers
}

func (a *Agent[M]) LastMetric() metrics.SearchMetric {
	if a.driver == nil {
		return metrics.SearchMetric{}
	}
	return a.driver.LastMetric()
}
