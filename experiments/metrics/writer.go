package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID in seat 0
	Agent2 int // AgentConfig.ID in seat 1
	GameMetric
}

// WinnerID returns the AgentConfig.ID of the winner, -1 for an unfinished game.
func (r GameRecord) WinnerID() int {
	switch r.Winner {
	case 0:
		return r.Agent1
	case 1:
		return r.Agent2
	default:
		return -1
	}
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

func NewWriter(dir, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "kind", "max_depth", "node_budget", "seed", "persistent_killers", "evaluation", "url"}
	return w.write("agent_configs.csv", "agent configs", header, len(configs), func(i int) []string {
		config := configs[i]
		return []string{
			strconv.Itoa(config.ID),
			config.Name,
			string(config.Kind),
			strconv.Itoa(config.MaxDepth),
			strconv.FormatUint(config.NodeBudget, 10),
			strconv.FormatUint(config.Seed, 10),
			strconv.FormatBool(config.PersistentKillers),
			config.Evaluation,
			config.URL,
		}
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "forfeit", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", "game records", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.WinnerID()),
			record.Forfeit,
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "depth", "iterations", "nodes", "cutoffs", "killer_cutoffs", "is_opening", "is_aborted"}
	return w.write("move_records.csv", "move records", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Move,
			record.Duration.String(),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Cutoffs),
			strconv.Itoa(record.KillerCutoffs),
			strconv.FormatBool(record.IsOpening),
			strconv.FormatBool(record.IsAborted),
		}
	})
}

func (w *Writer) write(file, what string, header []string, rows int, row func(i int) []string) error {
	// Create a file
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	// Write each row
	for i := 0; i < rows; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}
