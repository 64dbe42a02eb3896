package searcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"isolation/experiments/metrics"
	"isolation/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// OpeningPlies are answered with a uniformly random move instead of a search.
const OpeningPlies = 2

// SearchInfo describes a completed iteration.
type SearchInfo struct {
	Depth   int
	Value   float64
	Move    any
	Nodes   uint64 // Nodes expanded by the decision so far
	Cutoffs uint64
	Elapsed time.Duration
}

type Option func(s *settings)

type settings struct {
	maxDepth   int
	nodeBudget uint64
	rand       *rand.Rand
	info       func(SearchInfo)
	metrics    metrics.Collector
}

// WithMaxDepth caps the deepest iteration. Depths beyond MaxPly-1 are clamped.
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.maxDepth = min(depth, MaxPly-1)
		}
	}
}

// WithNodeBudget stops deepening once a decision has expanded at least
// nodes nodes. The iteration that crosses the budget is still completed.
func WithNodeBudget(nodes uint64) Option {
	return func(s *settings) {
		s.nodeBudget = nodes
	}
}

// WithRand sets the source of the random opening moves.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		if r != nil {
			s.rand = r
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rand = rand.New(rand.NewSource(seed))
	}
}

// WithInfo registers a callback invoked after every completed iteration.
func WithInfo(info func(SearchInfo)) Option {
	return func(s *settings) {
		s.info = info
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

// Driver chooses moves by iterative deepening over an AlphaBeta search and
// publishes the best move of every completed iteration.
type Driver[M comparable] struct {
	search *AlphaBeta[M]
	metric metrics.SearchMetric
	settings
}

func NewDriver[M comparable](player game.Player, evaluate game.Evaluate, killers *KillerTable[M], options ...Option) *Driver[M] {
	d := &Driver[M]{ // Default values
		search: NewAlphaBeta(player, evaluate, killers),
		settings: settings{
			maxDepth: MaxPly - 1,
			rand:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
			metrics:  metrics.NewDummyCollector(),
		},
	}
	for _, option := range options {
		option(&d.settings)
	}
	return d
}

// ChooseMove returns the move of the deepest completed iteration. Deepening
// stops when ctx is done, the tree is exhausted, the value is a proven win
// or loss, the depth limit is reached or the node budget is spent.
//
// ErrAborted is returned when ctx ends before the first iteration completes.
// Nothing is published in that case.
func (d *Driver[M]) ChooseMove(ctx context.Context, sc *SearchContext, state game.State[M], publish func(M)) (M, error) {
	var none M
	actions := state.Actions()
	if len(actions) == 0 {
		return none, ErrNoLegalMoves
	}

	d.metrics.Start(d.maxDepth)
	defer func() { d.metric = d.metrics.Complete() }()

	if state.PlyCount() < OpeningPlies {
		move := actions[d.rand.Intn(len(actions))]
		d.metrics.SetOpening()
		publish(move)
		return move, nil
	}

	start := time.Now()
	nodes, cutoffs, killerCutoffs := sc.Nodes, sc.Cutoffs, sc.KillerCutoffs
	var best Result[M]
	completed := false
	for depth := 1; depth <= d.maxDepth && !done(ctx); depth++ {
		result, err := d.search.Search(ctx, sc, state, depth)
		if errors.Is(err, ErrAborted) {
			d.metrics.SetAborted()
			break
		}
		if err != nil {
			return none, err
		}

		best, completed = result, true
		publish(result.Move)
		sc.Layers += uint64(depth)

		used := sc.Nodes - nodes
		d.metrics.AddIteration(depth, used, sc.Cutoffs-cutoffs, sc.KillerCutoffs-killerCutoffs)
		info := SearchInfo{
			Depth:   depth,
			Value:   result.Value,
			Move:    result.Move,
			Nodes:   used,
			Cutoffs: sc.Cutoffs - cutoffs,
			Elapsed: time.Since(start),
		}
		log.Debug().Msgf("depth %d: value %.2f, %d nodes, %d cutoffs in %v", info.Depth, info.Value, info.Nodes, info.Cutoffs, info.Elapsed)
		if d.info != nil {
			d.info(info)
		}

		if !result.Horizon || math.IsInf(result.Value, 0) {
			break
		}
		if d.nodeBudget > 0 && used >= d.nodeBudget {
			break
		}
	}

	if !completed {
		return none, fmt.Errorf("%w before the first iteration completed", ErrAborted)
	}
	return best.Move, nil
}

// LastMetric returns the metrics of the latest ChooseMove call.
func (d *Driver[M]) LastMetric() metrics.SearchMetric {
	return d.metric
}
