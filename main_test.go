package main

import (
	"strings"
	"testing"
	"time"

	"isolation/storage"

	"github.com/stretchr/testify/require"
)

func TestPrintStats(t *testing.T) {
	var sb strings.Builder
	stats := []storage.AgentStats{
		{AgentID: 1, Games: 4, Wins: 3, Losses: 1, Forfeits: 1, TotalMoves: 60, TotalTime: 2 * time.Second},
		{AgentID: 2, Games: 4, Wins: 1, Losses: 3, TotalMoves: 58, TotalTime: time.Second},
	}

	printStats(&sb, stats)

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2, "Every agent should get a line")
	require.Contains(t, lines[0], "agent 1")
	require.Contains(t, lines[0], "75.0% won")
	require.Contains(t, lines[0], "1 forfeits")
	require.Contains(t, lines[1], "25.0% won")
	require.Contains(t, lines[1], "1s")
}
