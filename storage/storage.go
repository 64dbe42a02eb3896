package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"isolation/experiments/metrics"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes, followed by the experiment name and a zero padded ID so
// that prefix iteration returns records in ID order
const (
	prefixGame  = "game"
	prefixStats = "stats"
)

// AgentStats aggregates the results of one agent config in one experiment
type AgentStats struct {
	AgentID    int           `json:"agent_id"`
	Games      int           `json:"games"`
	Wins       int           `json:"wins"`
	Losses     int           `json:"losses"`
	Unfinished int           `json:"unfinished"`
	Forfeits   int           `json:"forfeits"` // Losses by forfeit
	TotalMoves int           `json:"total_moves"`
	TotalTime  time.Duration `json:"total_time"`
}

// WinRate returns the win rate as a percentage (0-100)
func (s AgentStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games) * 100
}

// Store wraps BadgerDB for experiment results
type Store struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(experiment string, id int) []byte {
	return []byte(fmt.Sprintf("%s/%s/%08d", prefixGame, experiment, id))
}

func statsKey(experiment string, agentID int) []byte {
	return []byte(fmt.Sprintf("%s/%s/%08d", prefixStats, experiment, agentID))
}

func prefix(kind, experiment string) []byte {
	return []byte(kind + "/" + experiment + "/")
}

// SaveGame stores a game record and folds it into the stats of both seats.
// Concurrent saves that touch the same stats are retried.
func (s *Store) SaveGame(experiment string, record metrics.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode game %d: %w", record.ID, err)
	}

	for {
		err = s.db.Update(func(txn *badger.Txn) error {
			if err := txn.Set(gameKey(experiment, record.ID), data); err != nil {
				return err
			}
			for seat, agentID := range []int{record.Agent1, record.Agent2} {
				if err := s.recordResult(txn, experiment, agentID, seat, record); err != nil {
					return err
				}
			}
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to save game %d: %w", record.ID, err)
	}
	return nil
}

func (s *Store) recordResult(txn *badger.Txn, experiment string, agentID, seat int, record metrics.GameRecord) error {
	stats := AgentStats{AgentID: agentID}
	key := statsKey(experiment, agentID)

	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound): // Use empty stats
	case err != nil:
		return err
	default:
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
		if err != nil {
			return err
		}
	}

	stats.Games++
	stats.TotalMoves += record.TotalMoves
	stats.TotalTime += record.Duration
	switch record.Winner {
	case -1:
		stats.Unfinished++
	case seat:
		stats.Wins++
	default:
		stats.Losses++
		if record.Forfeit != "" {
			stats.Forfeits++
		}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// Games returns the game records of an experiment in ID order
func (s *Store) Games(experiment string) ([]metrics.GameRecord, error) {
	var records []metrics.GameRecord
	err := s.scan(prefix(prefixGame, experiment), func(val []byte) error {
		var record metrics.GameRecord
		if err := json.Unmarshal(val, &record); err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load games of %s: %w", experiment, err)
	}
	return records, nil
}

// Stats returns the per agent stats of an experiment in agent ID order
func (s *Store) Stats(experiment string) ([]AgentStats, error) {
	var stats []AgentStats
	err := s.scan(prefix(prefixStats, experiment), func(val []byte) error {
		var st AgentStats
		if err := json.Unmarshal(val, &st); err != nil {
			return err
		}
		stats = append(stats, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load stats of %s: %w", experiment, err)
	}
	return stats, nil
}

func (s *Store) scan(prefix []byte, visit func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(visit); err != nil {
				return err
			}
		}
		return nil
	})
}
