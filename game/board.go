package game

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"github.com/samber/lo"
)

// Board dimensions. Every row is followed by two padding cells so that
// knight offsets never wrap onto the neighbouring row.
const (
	Width  = 11
	Height = 9
	stride = Width + 2
	Size   = stride * Height
)

// cells is a bitset over the padded encoding. A set bit is an open cell.
type cells [2]uint64

func (c cells) has(loc int) bool {
	return loc >= 0 && loc < Size && c[loc>>6]&(1<<(uint(loc)&63)) != 0
}

func (c cells) with(loc int) cells {
	c[loc>>6] |= 1 << (uint(loc) & 63)
	return c
}

func (c cells) without(loc int) cells {
	c[loc>>6] &^= 1 << (uint(loc) & 63)
	return c
}

func (c cells) count() int {
	return bits.OnesCount64(c[0]) + bits.OnesCount64(c[1])
}

var blank = func() cells {
	var c cells
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			c = c.with(Standard.Index(col, row))
		}
	}
	return c
}()

// Board is a Knight's Isolation position: each player in turn moves like a
// chess knight to an open cell, closing the cell behind it. The side to move
// with no open knight target loses.
//
// Board is a value type. Result returns a modified copy and never touches
// the receiver.
type Board struct {
	open cells  // Open cells; visited, occupied and padding cells are closed
	locs [2]int // Cell of each player, NoLoc until placed
	ply  int    // Moves played so far
}

// NewBoard returns the empty starting position.
func NewBoard() Board {
	return Board{
		open: blank,
		locs: [2]int{NoLoc, NoLoc},
	}
}

// Block closes the given cells, e.g. to set up a custom starting position.
func (b Board) Block(locs ...int) (Board, error) {
	for _, loc := range locs {
		if err := Standard.Validate(loc); err != nil {
			return b, err
		}
		if !b.open.has(loc) {
			return b, fmt.Errorf("%w: cell %d is already closed", ErrIllegalMove, loc)
		}
		b.open = b.open.without(loc)
	}
	return b, nil
}

// Actions returns the legal moves of the side to move in a fixed order:
// every open cell while the mover is unplaced, otherwise the open knight
// targets in compass order.
func (b Board) Actions() []Action {
	loc := b.locs[b.Player()]
	if loc == NoLoc {
		actions := make([]Action, 0, b.open.count())
		for i := 0; i < Size; i++ {
			if b.open.has(i) {
				actions = append(actions, Action(i))
			}
		}
		return actions
	}

	actions := make([]Action, 0, len(knightMoves))
	for _, a := range knightMoves {
		if b.open.has(loc + int(a)) {
			actions = append(actions, a)
		}
	}
	return actions
}

// Liberties returns the open cells reachable from loc. For NoLoc that is
// every open cell.
func (b Board) Liberties(loc int) []int {
	if loc == NoLoc {
		libs := make([]int, 0, b.open.count())
		for i := 0; i < Size; i++ {
			if b.open.has(i) {
				libs = append(libs, i)
			}
		}
		return libs
	}

	libs := make([]int, 0, len(knightMoves))
	for _, a := range knightMoves {
		if to := loc + int(a); b.open.has(to) {
			libs = append(libs, to)
		}
	}
	return libs
}

// Result applies a legal action. Use Play when the action is untrusted.
func (b Board) Result(a Action) State[Action] {
	return b.apply(a)
}

// Play applies a after checking that it is legal.
func (b Board) Play(a Action) (Board, error) {
	if !lo.Contains(b.Actions(), a) {
		return b, fmt.Errorf("%w: %s by player %d", ErrIllegalMove, b.Describe(a), b.Player())
	}
	return b.apply(a), nil
}

func (b Board) apply(a Action) Board {
	p := b.Player()
	to := int(a)
	if b.locs[p] != NoLoc {
		to += b.locs[p]
	}
	b.open = b.open.without(to)
	b.locs[p] = to
	b.ply++
	return b
}

func (b Board) hasLiberties(p Player) bool {
	loc := b.locs[p]
	if loc == NoLoc {
		return b.open.count() > 0
	}
	for _, a := range knightMoves {
		if b.open.has(loc + int(a)) {
			return true
		}
	}
	return false
}

// TerminalTest reports whether the side to move is out of moves.
func (b Board) TerminalTest() bool {
	return !b.hasLiberties(b.Player())
}

// Utility returns 0 for a running game, otherwise Win or Loss from p's
// perspective. The side to move in a terminal position has lost.
func (b Board) Utility(p Player) float64 {
	if !b.TerminalTest() {
		return 0
	}
	if p == b.Player() {
		return Loss
	}
	return Win
}

func (b Board) Loc(p Player) int {
	return b.locs[p]
}

func (b Board) PlyCount() int {
	return b.ply
}

// Player returns the side to move.
func (b Board) Player() Player {
	return Player(b.ply % 2)
}

// Geometry returns the location encoding used by the board.
func (b Board) Geometry() Geometry {
	return Standard
}

// Describe renders a as played from this position.
func (b Board) Describe(a Action) string {
	if b.locs[b.Player()] == NoLoc {
		col, row, err := Standard.Coord(int(a))
		if err != nil {
			return fmt.Sprintf("place@%d", int(a))
		}
		return fmt.Sprintf("place(%d,%d)", col, row)
	}
	if name, ok := knightNames[a]; ok {
		return name
	}
	return fmt.Sprintf("offset%+d", int(a))
}

// String draws the board with the top row first: players as 1 and 2, open
// cells as dots and closed cells as hashes.
func (b Board) String() string {
	var sb strings.Builder
	for row := Height - 1; row >= 0; row-- {
		for col := 0; col < Width; col++ {
			loc := Standard.Index(col, row)
			switch {
			case loc == b.locs[0]:
				sb.WriteByte('1')
			case loc == b.locs[1]:
				sb.WriteByte('2')
			case b.open.has(loc):
				sb.WriteByte('.')
			default:
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type boardJSON struct {
	Open [2]uint64 `json:"open"`
	Locs [2]int    `json:"locs"`
	Ply  int       `json:"ply"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Open: b.open, Locs: b.locs, Ply: b.ply})
}

// UnmarshalJSON decodes a board, closing padding and occupied cells marked
// open.
func (b *Board) UnmarshalJSON(data []byte) error {
	var v boardJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	for p, loc := range v.Locs {
		if loc == NoLoc {
			continue
		}
		if err := Standard.Validate(loc); err != nil {
			return fmt.Errorf("player %d: %w", p, err)
		}
	}
	if v.Ply < 0 {
		return fmt.Errorf("negative ply count %d", v.Ply)
	}
	open := cells{v.Open[0] & blank[0], v.Open[1] & blank[1]}
	for _, loc := range v.Locs {
		if loc != NoLoc {
			open = open.without(loc)
		}
	}
	b.open = open
	b.locs = v.Locs
	b.ply = v.Ply
	return nil
}
