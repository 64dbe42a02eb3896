package experiments

import (
	"fmt"
	"strings"

	"isolation/experiments/metrics"

	"github.com/samber/lo"
)

type Standing struct {
	Agent    metrics.AgentConfig
	Games    int
	Wins     int
	Losses   int
	Forfeits int // Losses by forfeit
}

// WinRate returns the fraction of games won.
func (s Standing) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

type Report struct {
	Name      string
	Games     int
	Standings []Standing // In agent config order
}

// Summarize tallies games per agent config. An agent playing itself is counted
// once per seat.
func Summarize(name string, agents []metrics.AgentConfig, games []metrics.GameRecord) Report {
	standings := lo.Map(agents, func(config metrics.AgentConfig, _ int) Standing {
		s := Standing{Agent: config}
		for _, g := range games {
			for seat, id := range []int{g.Agent1, g.Agent2} {
				if id != config.ID {
					continue
				}
				s.Games++
				switch g.Winner {
				case seat:
					s.Wins++
				case 1 - seat:
					s.Losses++
					if g.Forfeit != "" {
						s.Forfeits++
					}
				}
			}
		}
		return s
	})
	return Report{
		Name:      name,
		Games:     len(games),
		Standings: lo.Filter(standings, func(s Standing, _ int) bool { return s.Games > 0 }),
	}
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d games\n", r.Name, r.Games)
	for _, s := range r.Standings {
		fmt.Fprintf(&sb, "  %-16s %4d games %4d wins %4d losses %4d forfeits %6.1f%%\n",
			s.Agent, s.Games, s.Wins, s.Losses, s.Forfeits, 100*s.WinRate())
	}
	return sb.String()
}
