package game

import "fmt"

// Geometry maps linear board locations to columns and rows. Stride is the
// row length of the encoding and may exceed Width when rows are padded.
type Geometry struct {
	Width  int
	Height int
	Stride int
}

// Standard is the 11x9 board with two padding cells per row used by Board.
var Standard = Geometry{Width: Width, Height: Height, Stride: stride}

// Size returns the number of encoded cells, padding included.
func (g Geometry) Size() int {
	return g.Stride * g.Height
}

// Index returns the location of the cell at col, row.
func (g Geometry) Index(col, row int) int {
	return row*g.Stride + col
}

// Center returns the column and row of the middle cell.
func (g Geometry) Center() (col, row int) {
	return (g.Width - 1) / 2, (g.Height - 1) / 2
}

// Coord returns the column and row of loc, rejecting locations that fall
// off the board or on a padding cell.
func (g Geometry) Coord(loc int) (col, row int, err error) {
	if g.Stride <= 0 || loc < 0 || loc >= g.Size() {
		return 0, 0, fmt.Errorf("%w: location %d outside %dx%d board", ErrGeometryMismatch, loc, g.Width, g.Height)
	}
	row, col = loc/g.Stride, loc%g.Stride
	if col >= g.Width {
		return 0, 0, fmt.Errorf("%w: location %d is a padding cell", ErrGeometryMismatch, loc)
	}
	return col, row, nil
}

// Validate reports whether loc is a playable cell of the geometry.
func (g Geometry) Validate(loc int) error {
	_, _, err := g.Coord(loc)
	return err
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d/%d", g.Width, g.Height, g.Stride)
}
