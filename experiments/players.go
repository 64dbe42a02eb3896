package experiments

import (
	"fmt"

	"isolation/agent"
	"isolation/engine"
	"isolation/experiments/metrics"
	"isolation/game"
)

var evaluations = map[string]func(game.Heuristic) game.Evaluate{
	"":                           func(h game.Heuristic) game.Evaluate { return h.Combined },
	metrics.EvaluationCombined:   func(h game.Heuristic) game.Evaluate { return h.Combined },
	metrics.EvaluationBaseline:   func(h game.Heuristic) game.Evaluate { return h.Baseline },
	metrics.EvaluationCentrality: func(h game.Heuristic) game.Evaluate { return h.Centrality },
}

// gameSeed derives a per game seed so repeated games differ. Zero stays zero
// and seeds from the clock.
func gameSeed(seed uint64, gameID int) uint64 {
	if seed == 0 {
		return 0
	}
	return seed + uint64(gameID)
}

func newPlayer(config metrics.AgentConfig, gameID int) (engine.Player[game.Action], error) {
	evaluation, ok := evaluations[config.Evaluation]
	if !ok {
		return nil, fmt.Errorf("%w: agent %d has unknown evaluation %q", metrics.ErrInvalidConfig, config.ID, config.Evaluation)
	}
	seed := gameSeed(config.Seed, gameID)

	switch config.Kind {
	case metrics.KindAlphaBeta:
		options := []agent.Option{agent.WithMetrics(), agent.WithEvaluation(evaluation)}
		if config.MaxDepth > 0 {
			options = append(options, agent.WithMaxDepth(config.MaxDepth))
		}
		if config.NodeBudget > 0 {
			options = append(options, agent.WithNodeBudget(config.NodeBudget))
		}
		if seed > 0 {
			options = append(options, agent.WithSeed(seed))
		}
		if config.PersistentKillers {
			options = append(options, agent.WithPersistentKillers())
		}
		return agent.New[game.Action](options...), nil
	case metrics.KindGreedy:
		if config.Evaluation == "" {
			return agent.NewGreedy[game.Action](nil), nil
		}
		return agent.NewGreedy[game.Action](func(p game.Player) game.Evaluate {
			return evaluation(game.NewHeuristic(game.Standard, p))
		}), nil
	case metrics.KindRandom:
		return agent.NewRandom[game.Action](seed), nil
	case metrics.KindRemote:
		return engine.NewRemote(config.URL), nil
	default:
		return nil, fmt.Errorf("%w: agent %d has unknown kind %q", metrics.ErrInvalidConfig, config.ID, config.Kind)
	}
}
