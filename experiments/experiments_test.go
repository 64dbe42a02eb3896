package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"isolation/agent"
	"isolation/engine"
	"isolation/experiments/metrics"
	"isolation/game"
	"isolation/storage"

	"github.com/stretchr/testify/require"
)

const experimentYAML = `
name: smoke
games: 4
time_limit: 5ms
workers: 2
progress: false
agents:
  - id: 7
    name: greedy
    kind: greedy
  - id: 8
    name: random
    kind: random
    seed: 3
match_ups:
  - agent1: 7
    agent2: 8
`

func TestLoad(t *testing.T) {
	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		require.NoError(t, os.WriteFile(path, []byte(experimentYAML), 0644))

		exp, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, "smoke", exp.Name)
		require.Equal(t, 4, exp.Games)
		require.Equal(t, 5*time.Millisecond, exp.TimeLimit)
		require.False(t, exp.Progress)
		require.Equal(t, "experiments", exp.Output, "Missing fields should keep their defaults")
		require.Len(t, exp.Agents, 2)
		require.Equal(t, metrics.KindRandom, exp.Agents[1].Kind)
		require.Equal(t, uint64(3), exp.Agents[1].Seed)
		require.Equal(t, []MatchUp{{Agent1: 7, Agent2: 8}}, exp.MatchUps)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("default experiment is valid", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(e *Experiment)
		want   error
	}{
		{"no games", func(e *Experiment) { e.Games = 0 }, ErrInvalidExperiment},
		{"no time limit", func(e *Experiment) { e.TimeLimit = 0 }, ErrInvalidExperiment},
		{"duplicate agents", func(e *Experiment) { e.Agents = append(e.Agents, e.Agents[0]) }, ErrInvalidExperiment},
		{"unknown agent", func(e *Experiment) { e.MatchUps = append(e.MatchUps, MatchUp{Agent1: 1, Agent2: 99}) }, ErrInvalidExperiment},
		{"no match ups", func(e *Experiment) { e.MatchUps = nil }, ErrInvalidExperiment},
		{"unknown kind", func(e *Experiment) { e.Agents[0].Kind = "minimax" }, metrics.ErrInvalidConfig},
		{"remote without url", func(e *Experiment) { e.Agents[0].Kind = metrics.KindRemote }, metrics.ErrInvalidConfig},
		{"unknown evaluation", func(e *Experiment) { e.Agents[0].Evaluation = "material" }, metrics.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Default()
			tt.modify(&exp)
			require.ErrorIs(t, exp.Validate(), tt.want)
		})
	}
}

func TestNewPlayer(t *testing.T) {
	custom, err := newPlayer(metrics.AgentConfig{ID: 1, Kind: metrics.KindAlphaBeta, MaxDepth: 3, Seed: 1}, 1)
	require.NoError(t, err)
	require.IsType(t, &agent.Agent[game.Action]{}, custom)

	greedy, err := newPlayer(metrics.AgentConfig{ID: 2, Kind: metrics.KindGreedy, Evaluation: metrics.EvaluationCentrality}, 1)
	require.NoError(t, err)
	require.IsType(t, &agent.Greedy[game.Action]{}, greedy)

	random, err := newPlayer(metrics.AgentConfig{ID: 3, Kind: metrics.KindRandom}, 1)
	require.NoError(t, err)
	require.IsType(t, &agent.Random[game.Action]{}, random)

	remote, err := newPlayer(metrics.AgentConfig{ID: 4, Kind: metrics.KindRemote, URL: "http://localhost:8080"}, 1)
	require.NoError(t, err)
	require.IsType(t, &engine.Remote{}, remote)

	_, err = newPlayer(metrics.AgentConfig{ID: 5, Kind: "human"}, 1)
	require.ErrorIs(t, err, metrics.ErrInvalidConfig)

	require.Zero(t, gameSeed(0, 5), "Clock seeding should be kept")
	require.Equal(t, uint64(8), gameSeed(3, 5))
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(experimentYAML), 0644))
	exp, err := Load(path)
	require.NoError(t, err)
	exp.Output = t.TempDir()
	store, err := storage.Open("")
	require.NoError(t, err)
	defer store.Close()

	report, err := Run(context.Background(), exp, store)

	require.NoError(t, err)
	require.Equal(t, 4, report.Games)
	require.Len(t, report.Standings, 2)
	for _, s := range report.Standings {
		require.Equal(t, 4, s.Games)
	}
	require.Equal(t, 4, report.Standings[0].Wins+report.Standings[1].Wins, "Every game should have a winner")
	require.Contains(t, report.String(), "smoke: 4 games")

	games, err := store.Games("smoke")
	require.NoError(t, err)
	require.Len(t, games, 4)
	for i, g := range games {
		require.Equal(t, i+1, g.ID)
		require.Equal(t, g.StartingPlayer, g.Agent1)
		if i%2 == 0 {
			require.Equal(t, 7, g.Agent1, "Agent1 should start even games")
		} else {
			require.Equal(t, 8, g.Agent1, "Seats should alternate")
		}
	}

	stats, err := store.Stats("smoke")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, report.Standings[0].Wins, stats[0].Wins)

	files, err := filepath.Glob(filepath.Join(exp.Output, "smoke", "*", "*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 3, "Agent configs, game and move records should be written")
}

func TestSummarize(t *testing.T) {
	agents := []metrics.AgentConfig{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "idle"}}
	games := []metrics.GameRecord{
		{ID: 1, Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Winner: 0}},
		{ID: 2, Agent1: 2, Agent2: 1, GameMetric: metrics.GameMetric{Winner: 1, Forfeit: "no move"}},
		{ID: 3, Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Winner: -1}},
	}

	report := Summarize("exp", agents, games)

	require.Equal(t, 3, report.Games)
	require.Equal(t, []Standing{
		{Agent: agents[0], Games: 3, Wins: 2, Losses: 0},
		{Agent: agents[1], Games: 3, Wins: 0, Losses: 2, Forfeits: 1},
	}, report.Standings, "Agents without games should be left out")
	require.InDelta(t, 2.0/3, report.Standings[0].WinRate(), 1e-9)
}
