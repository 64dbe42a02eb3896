package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"isolation/agent"
	"isolation/engine"
	"isolation/experiments"
	"isolation/game"
	"isolation/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Experiment YAML file, defaults to the built-in experiment")
	games := flag.Int("games", 0, "Games per match up, overrides the experiment")
	timeLimit := flag.Duration("time", 0, "Time limit per move, overrides the experiment")
	workers := flag.Int("workers", 0, "Games played concurrently, overrides the experiment")
	output := flag.String("out", "", "CSV output directory, overrides the experiment")
	dbDir := flag.String("db", "", "Badger directory for results, in memory when empty")
	verbose := flag.Bool("v", false, "Log every search iteration")
	serve := flag.String("serve", "", "Serve the search agent on this address instead of running an experiment")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if *serve != "" {
		log.Info().Msgf("serving search agent on %s", *serve)
		player := agent.New[game.Action](agent.WithMetrics())
		log.Fatal().Err(http.ListenAndServe(*serve, engine.NewHandler(player))).Msg("agent server stopped")
	}

	if err := run(*configPath, *games, *timeLimit, *workers, *output, *dbDir); err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
}

func run(configPath string, games int, timeLimit time.Duration, workers int, output, dbDir string) error {
	exp := experiments.Default()
	if configPath != "" {
		var err error
		exp, err = experiments.Load(configPath)
		if err != nil {
			return err
		}
	}
	if games > 0 {
		exp.Games = games
	}
	if timeLimit > 0 {
		exp.TimeLimit = timeLimit
	}
	if workers > 0 {
		exp.Workers = workers
	}
	if output != "" {
		exp.Output = output
	}

	store, err := storage.Open(dbDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := experiments.Run(ctx, exp, store)
	if err != nil {
		return err
	}
	fmt.Print(report)

	stats, err := store.Stats(exp.Name)
	if err != nil {
		return err
	}
	log.Info().Msgf("stored stats of %d agents", len(stats))
	printStats(os.Stdout, stats)
	return nil
}

func printStats(w io.Writer, stats []storage.AgentStats) {
	for _, st := range stats {
		fmt.Fprintf(w, "  agent %-4d %4d games %5.1f%% won %4d forfeits %4d unfinished %6d moves in %v\n",
			st.AgentID, st.Games, st.WinRate(), st.Forfeits, st.Unfinished, st.TotalMoves, st.TotalTime)
	}
}
