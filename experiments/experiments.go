package experiments

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"isolation/engine"
	"isolation/experiments/metrics"
	"isolation/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	NumGames   = 10 // Per match up
	TimeBudget = 150 * time.Millisecond
)

var ErrInvalidExperiment = errors.New("invalid experiment")

// MatchUp pairs two agent configs by ID. Seats alternate from game to game,
// Agent1 takes seat 0 in the first game.
type MatchUp struct {
	Agent1 int `yaml:"agent1"`
	Agent2 int `yaml:"agent2"`
}

type Experiment struct {
	Name      string                `yaml:"name"`
	Games     int                   `yaml:"games"`      // Per match up
	TimeLimit time.Duration         `yaml:"time_limit"` // Per move
	Workers   int                   `yaml:"workers"`    // Games played concurrently
	Progress  bool                  `yaml:"progress"`
	Output    string                `yaml:"output"` // CSV directory, empty to skip
	Agents    []metrics.AgentConfig `yaml:"agents"`
	MatchUps  []MatchUp             `yaml:"match_ups"`
}

var defaultAgents = []metrics.AgentConfig{
	{ID: 1, Name: "custom", Kind: metrics.KindAlphaBeta},
	{ID: 2, Name: "ab_baseline", Kind: metrics.KindAlphaBeta, Evaluation: metrics.EvaluationBaseline},
	{ID: 3, Name: "greedy", Kind: metrics.KindGreedy},
	{ID: 4, Name: "random", Kind: metrics.KindRandom},
}

// Default pits the custom agent against every baseline.
func Default() Experiment {
	return Experiment{
		Name:      "isolation",
		Games:     NumGames,
		TimeLimit: TimeBudget,
		Workers:   runtime.NumCPU(),
		Progress:  true,
		Output:    "experiments",
		Agents:    append([]metrics.AgentConfig(nil), defaultAgents...),
		MatchUps:  []MatchUp{{Agent1: 1, Agent2: 2}, {Agent1: 1, Agent2: 3}, {Agent1: 1, Agent2: 4}},
	}
}

// Load reads an experiment from a YAML file. Missing fields keep the values
// of Default.
func Load(path string) (Experiment, error) {
	exp := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return exp, fmt.Errorf("failed to read experiment: %w", err)
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return exp, fmt.Errorf("failed to parse experiment %s: %w", path, err)
	}
	return exp, exp.Validate()
}

func (e Experiment) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidExperiment)
	}
	if e.Games <= 0 {
		return fmt.Errorf("%w: games must be positive", ErrInvalidExperiment)
	}
	if e.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit must be positive", ErrInvalidExperiment)
	}
	if dup := lo.FindDuplicatesBy(e.Agents, func(c metrics.AgentConfig) int { return c.ID }); len(dup) > 0 {
		return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidExperiment, dup[0].ID)
	}
	for _, config := range e.Agents {
		if err := config.Validate(); err != nil {
			return err
		}
	}
	ids := lo.Map(e.Agents, func(c metrics.AgentConfig, _ int) int { return c.ID })
	for _, m := range e.MatchUps {
		if !lo.Contains(ids, m.Agent1) || !lo.Contains(ids, m.Agent2) {
			return fmt.Errorf("%w: match up %d vs %d references an unknown agent", ErrInvalidExperiment, m.Agent1, m.Agent2)
		}
	}
	if len(e.MatchUps) == 0 {
		return fmt.Errorf("%w: no match ups", ErrInvalidExperiment)
	}
	return nil
}

// Store persists completed games as they finish.
type Store interface {
	SaveGame(experiment string, record metrics.GameRecord) error
}

type job struct {
	id      int
	matchUp int
	seats   [2]metrics.AgentConfig
}

// Run plays every game of the experiment, at most Workers at a time. Each game
// owns its players, so every search stays single threaded. store may be nil.
func Run(ctx context.Context, exp Experiment, store Store) (Report, error) {
	if err := exp.Validate(); err != nil {
		return Report{}, err
	}
	configs := lo.KeyBy(exp.Agents, func(c metrics.AgentConfig) int { return c.ID })

	jobs := []job{}
	for mi, m := range exp.MatchUps {
		for i := 0; i < exp.Games; i++ {
			seats := [2]metrics.AgentConfig{configs[m.Agent1], configs[m.Agent2]}
			if i%2 == 1 {
				seats[0], seats[1] = seats[1], seats[0]
			}
			jobs = append(jobs, job{id: len(jobs) + 1, matchUp: mi, seats: seats})
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", exp.Name, len(jobs))
	bar := newBar(len(jobs), exp.Name, exp.Progress)
	gameRecords := make([]metrics.GameRecord, len(jobs))
	moveRecords := make([][]metrics.MoveRecord, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(exp.Workers, 1))
	for i, j := range jobs {
		g.Go(func() error {
			gameRecord, moves, err := runGame(ctx, exp, j)
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			gameRecords[i] = gameRecord
			moveRecords[i] = moves
			if store != nil {
				if err := store.SaveGame(exp.Name, gameRecord); err != nil {
					return err
				}
			}
			bar.Add(1)

			winner := "none"
			if w := gameRecord.Winner; w >= 0 {
				winner = j.seats[w].String()
			}
			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", j.matchUp+1, len(exp.MatchUps), j.id, winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	bar.Close()
	log.Info().Msgf("completed %s experiment", exp.Name)

	if exp.Output != "" {
		if err := writeRecords(exp, gameRecords, lo.Flatten(moveRecords)); err != nil {
			return Report{}, err
		}
	}
	return Summarize(exp.Name, exp.Agents, gameRecords), nil
}

// runGame plays a single game between the two seats of j
func runGame(ctx context.Context, exp Experiment, j job) (metrics.GameRecord, []metrics.MoveRecord, error) {
	var players [2]engine.Player[game.Action]
	for seat, config := range j.seats {
		p, err := newPlayer(config, j.id)
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		players[seat] = p
	}

	e := engine.NewLocal(players[0], players[1], engine.WithTimeLimit(exp.TimeLimit))
	gameMetric, moveMetrics, err := e.Run(ctx, game.NewBoard())
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	gameMetric.StartingPlayer = j.seats[0].ID

	gameRecord := metrics.GameRecord{
		ID:         j.id,
		Agent1:     j.seats[0].ID,
		Agent2:     j.seats[1].ID,
		GameMetric: gameMetric,
	}
	moveRecords := lo.Map(moveMetrics, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
		return metrics.MoveRecord{Game: j.id, MoveMetric: m}
	})
	return gameRecord, moveRecords, nil
}

func writeRecords(exp Experiment, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(exp.Output, exp.Name)
	if err != nil {
		return err
	}

	err = writer.WriteAgentConfigs(exp.Agents)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(games)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moves)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}
