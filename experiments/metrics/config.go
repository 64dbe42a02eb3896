package metrics

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAlphaBeta Kind = "alphabeta"
	KindGreedy    Kind = "greedy"
	KindRandom    Kind = "random"
	KindRemote    Kind = "remote"
)

// Evaluation names accepted by AgentConfig.Evaluation.
const (
	EvaluationCombined   = "combined"
	EvaluationBaseline   = "baseline"
	EvaluationCentrality = "centrality"
)

var ErrInvalidConfig = errors.New("invalid agent config")

type AgentConfig struct {
	ID                int    `yaml:"id"`
	Name              string `yaml:"name"`
	Kind              Kind   `yaml:"kind"`
	MaxDepth          int    `yaml:"max_depth,omitempty"`
	NodeBudget        uint64 `yaml:"node_budget,omitempty"`
	Seed              uint64 `yaml:"seed,omitempty"` // 0 seeds from the clock
	PersistentKillers bool   `yaml:"persistent_killers,omitempty"`
	Evaluation        string `yaml:"evaluation,omitempty"` // Defaults to combined
	URL               string `yaml:"url,omitempty"`        // Agent server of remote agents
}

func (c AgentConfig) Validate() error {
	switch c.Kind {
	case KindAlphaBeta, KindGreedy, KindRandom:
	case KindRemote:
		if c.URL == "" {
			return fmt.Errorf("%w: remote agent %d has no url", ErrInvalidConfig, c.ID)
		}
	default:
		return fmt.Errorf("%w: agent %d has unknown kind %q", ErrInvalidConfig, c.ID, c.Kind)
	}
	switch c.Evaluation {
	case "", EvaluationCombined, EvaluationBaseline, EvaluationCentrality:
	default:
		return fmt.Errorf("%w: agent %d has unknown evaluation %q", ErrInvalidConfig, c.ID, c.Evaluation)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: agent %d has negative max depth", ErrInvalidConfig, c.ID)
	}
	return nil
}

func (c AgentConfig) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}
