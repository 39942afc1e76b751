package board

import (
	"github.com/nutok/nutok/tiles"
)

// linePoints is what one line is worth: its length, doubled when the line
// is complete (as long as the order).
func (g *GameBoard) linePoints(line []tiles.Token) int {
	pts := len(line)
	if pts == g.order {
		pts += g.order
	}
	return pts
}

// ScoreCount counts the points of (row, col) as if its token was the last
// one dropped: the vertical line through it plus the horizontal one. A
// lone token still scores 1 per axis.
func (g *GameBoard) ScoreCount(row, col int) (int, error) {
	t, err := g.GetToken(row, col)
	if err != nil {
		return 0, err
	}
	c := Coord{row, col}
	v := g.lineThrough(c, t, VerticalDirection)
	h := g.lineThrough(c, t, HorizontalDirection)
	return g.linePoints(v) + g.linePoints(h), nil
}

// ScoreRun counts the points of a run a..b that was just dropped: the line
// along the run once, plus the perpendicular line through every cell of
// the run. For a single cell this is exactly ScoreCount.
func (g *GameBoard) ScoreRun(a, b Coord) (int, error) {
	cells, dir, err := Run(a, b)
	if err != nil {
		return 0, err
	}
	if len(cells) == 1 {
		return g.ScoreCount(a.Row, a.Col)
	}
	for _, c := range cells {
		if !g.has(c) {
			return 0, ErrNoToken
		}
	}
	pts := g.linePoints(g.lineThrough(a, g.dropped[a], dir))
	perp := dir.Perpendicular()
	for _, c := range cells {
		pts += g.linePoints(g.lineThrough(c, g.dropped[c], perp))
	}
	return pts, nil
}
