package game

import "fmt"

// Evaluation weights of Combined.
const (
	MobilityWeight   = 0.5
	CentralityWeight = 1.5
)

// Heuristic scores positions from a fixed player's perspective. Every score
// is finite and antisymmetric: swapping the two players negates it.
type Heuristic struct {
	Geometry Geometry
	Player   Player
}

func NewHeuristic(geometry Geometry, player Player) Heuristic {
	return Heuristic{Geometry: geometry, Player: player}
}

// Baseline returns the difference between the player's and the opponent's
// number of open knight targets.
func (h Heuristic) Baseline(s Positional) float64 {
	own := len(s.Liberties(s.Loc(h.Player)))
	opp := len(s.Liberties(s.Loc(h.Player.Opponent())))
	return float64(own - opp)
}

// Centrality rewards the player for standing closer to the center than the
// opponent. Unplaced players contribute nothing.
func (h Heuristic) Centrality(s Positional) float64 {
	own := h.placement(s.Loc(h.Player))
	opp := h.placement(s.Loc(h.Player.Opponent()))
	return float64(opp - own)
}

// Combined is the weighted sum of Baseline and Centrality used by the search.
func (h Heuristic) Combined(s Positional) float64 {
	return MobilityWeight*h.Baseline(s) + CentralityWeight*h.Centrality(s)
}

// placement returns the squared distance to the center minus twice the
// distance to the farthest edge. Lower is better.
func (h Heuristic) placement(loc int) int {
	if loc == NoLoc {
		return 0
	}
	col, row, err := h.Geometry.Coord(loc)
	if err != nil {
		panic(fmt.Sprintf("centrality of invalid location: %v", err))
	}
	cx, cy := h.Geometry.Center()
	dx, dy := col-cx, row-cy
	distance := dx*dx + dy*dy
	edge := max(col, h.Geometry.Width-1-col, row, h.Geometry.Height-1-row)
	return distance - 2*edge
}
