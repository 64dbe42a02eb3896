package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration      time.Duration
	MaxDepth      int  // Configured depth limit
	Depth         int  // Deepest completed iteration
	Iterations    int  // Completed iterations
	Nodes         int  // Nodes expanded by completed iterations
	Cutoffs       int  // Beta cutoffs at max nodes
	KillerCutoffs int  // Cutoffs produced by a stored killer move
	IsOpening     bool // Random opening move, no search
	IsAborted     bool // Last iteration was cut short by the deadline
}

type MoveMetric struct {
	Step   int
	Player int    // Seat of the mover
	Move   string // Rendered by the board, empty on forfeit
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int    // AgentConfig.ID of the agent in seat 0
	Winner         int    // Seat of the winner, -1 for an unfinished game
	Forfeit        string // Reason the loser forfeited, empty for a regular finish
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(maxDepth int)
	SetOpening()
	SetAborted()
	AddIteration(depth int, nodes, cutoffs, killerCutoffs uint64)
	Complete() SearchMetric
}

type collector struct {
	maxDepth      int
	startTime     time.Time
	depth         atomic.Int32
	iterations    atomic.Int32
	nodes         atomic.Uint64
	cutoffs       atomic.Uint64
	killerCutoffs atomic.Uint64
	isOpening     atomic.Bool
	isAborted     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(maxDepth int) {
	m.startTime = time.Now()
	m.maxDepth = maxDepth
	m.depth.Store(0)
	m.iterations.Store(0)
	m.nodes.Store(0)
	m.cutoffs.Store(0)
	m.killerCutoffs.Store(0)
	m.isOpening.Store(false)
	m.isAborted.Store(false)
}

func (m *collector) SetOpening() {
	m.isOpening.Store(true)
}

func (m *collector) SetAborted() {
	m.isAborted.Store(true)
}

// AddIteration records a completed iteration. Counts are totals for the
// current decision, not deltas.
func (m *collector) AddIteration(depth int, nodes, cutoffs, killerCutoffs uint64) {
	m.depth.Store(int32(depth))
	m.iterations.Add(1)
	m.nodes.Store(nodes)
	m.cutoffs.Store(cutoffs)
	m.killerCutoffs.Store(killerCutoffs)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:      time.Since(m.startTime),
		MaxDepth:      m.maxDepth,
		Depth:         int(m.depth.Load()),
		Iterations:    int(m.iterations.Load()),
		Nodes:         int(m.nodes.Load()),
		Cutoffs:       int(m.cutoffs.Load()),
		KillerCutoffs: int(m.killerCutoffs.Load()),
		IsOpening:     m.isOpening.Load(),
		IsAborted:     m.isAborted.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxDepth int)                                {}
func (m *dummyCollector) SetOpening()                                       {}
func (m *dummyCollector) SetAborted()                                       {}
func (m *dummyCollector) AddIteration(depth int, nodes, cutoffs, kc uint64) {}
func (m *dummyCollector) Complete() SearchMetric                            { return SearchMetric{} }
