package board

// A Direction is one of the two board axes. It knows how to step forwards
// and backwards along itself and which axis is perpendicular to it.
type Direction uint8

const (
	// VerticalDirection walks the row axis: next is (i+1, j).
	VerticalDirection Direction = iota
	// HorizontalDirection walks the column axis: next is (i, j+1).
	HorizontalDirection
)

func (d Direction) String() string {
	switch d {
	case VerticalDirection:
		return "(vertical)"
	case HorizontalDirection:
		return "(horizontal)"
	}
	return "none"
}

// Next is the following cell along the axis.
func (d Direction) Next(c Coord) Coord {
	switch d {
	case VerticalDirection:
		return Coord{c.Row + 1, c.Col}
	case HorizontalDirection:
		return Coord{c.Row, c.Col + 1}
	}
	panic("unhandled direction " + d.String())
}

// Prev is the preceding cell along the axis.
func (d Direction) Prev(c Coord) Coord {
	switch d {
	case VerticalDirection:
		return Coord{c.Row - 1, c.Col}
	case HorizontalDirection:
		return Coord{c.Row, c.Col - 1}
	}
	panic("unhandled direction " + d.String())
}

func (d Direction) Perpendicular() Direction {
	switch d {
	case VerticalDirection:
		return HorizontalDirection
	case HorizontalDirection:
		return VerticalDirection
	}
	panic("unhandled direction " + d.String())
}
