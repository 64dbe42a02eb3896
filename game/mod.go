package game

import (
	"errors"
	"math"
)

// Player identifies a seat at the board. Player 0 moves first.
type Player int

// Opponent returns the other seat of a two player game.
func (p Player) Opponent() Player {
	return 1 - p
}

// NoLoc is the location of a player that has not been placed yet.
const NoLoc = -1

// Terminal utilities sit outside the range of any evaluation so a proven
// outcome is never confused with a good position.
var (
	Win  = math.Inf(1)
	Loss = math.Inf(-1)
)

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGeometryMismatch = errors.New("location does not match board geometry")
)

// Positional is the part of a state read by the evaluation functions.
type Positional interface {
	Liberties(loc int) []int
	Loc(player Player) int
}

// State should be immutable - Result always returns a new state and never
// mutates the receiver.
type State[M comparable] interface {
	Positional
	Actions() []M
	Result(move M) State[M]
	TerminalTest() bool
	Utility(player Player) float64
	PlyCount() int
	Player() Player
}

// Evaluate scores a non-terminal state from a fixed player's perspective.
// Higher is better for that player.
type Evaluate func(Positional) float64
