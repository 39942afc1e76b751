package board

import (
	"errors"
	"fmt"
)

var (
	ErrNotCollinear = errors.New("run endpoints must share a row or a column")
	ErrReversedRun  = errors.New("run endpoints must be given in increasing order")
	ErrRunLength    = errors.New("run length does not match the number of tokens")
)

// A Coord is a cell of the unbounded board. Row grows upwards and Col grows
// to the right; (0, 0) is where the first token goes.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Neighborhood returns the four orthogonally adjacent cells.
func (c Coord) Neighborhood() [4]Coord {
	return [4]Coord{
		{c.Row - 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
		{c.Row + 1, c.Col},
	}
}

func less(a, b Coord) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// Run lists the cells from a to b inclusive, along with the axis they lie
// on. A single-cell run is reported as horizontal.
func Run(a, b Coord) ([]Coord, Direction, error) {
	if a.Row != b.Row && a.Col != b.Col {
		return nil, HorizontalDirection, fmt.Errorf("%v to %v: %w", a, b, ErrNotCollinear)
	}
	if a.Row > b.Row || a.Col > b.Col {
		return nil, HorizontalDirection, fmt.Errorf("%v to %v: %w", a, b, ErrReversedRun)
	}
	var cells []Coord
	if a.Row == b.Row {
		for k := a.Col; k <= b.Col; k++ {
			cells = append(cells, Coord{a.Row, k})
		}
		return cells, HorizontalDirection, nil
	}
	for k := a.Row; k <= b.Row; k++ {
		cells = append(cells, Coord{k, a.Col})
	}
	return cells, VerticalDirection, nil
}
