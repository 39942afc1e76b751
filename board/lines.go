package board

import (
	"fmt"

	"github.com/nutok/nutok/tiles"
)

// WidestLine returns the maximal run of contiguous tokens through (row,
// col) along dir, in increasing coordinate order. The cell must hold a
// token.
func (g *GameBoard) WidestLine(row, col int, dir Direction) ([]tiles.Token, error) {
	t, err := g.GetToken(row, col)
	if err != nil {
		return nil, err
	}
	return g.lineThrough(Coord{row, col}, t, dir), nil
}

// CandidateLine is like WidestLine, but reads the line as it would be if t
// were dropped at (row, col). The cell must be empty.
func (g *GameBoard) CandidateLine(row, col int, dir Direction, t tiles.Token) ([]tiles.Token, error) {
	c := Coord{row, col}
	if g.has(c) {
		return nil, fmt.Errorf("%v: %w", c, ErrOccupied)
	}
	return g.lineThrough(c, t, dir), nil
}

// lineThrough walks back from c while occupied, then forward, with center
// standing in for whatever is at c.
func (g *GameBoard) lineThrough(c Coord, center tiles.Token, dir Direction) []tiles.Token {
	start := c
	for p := dir.Prev(c); g.has(p); p = dir.Prev(p) {
		start = p
	}
	var line []tiles.Token
	for p := start; p != c; p = dir.Next(p) {
		line = append(line, g.dropped[p])
	}
	line = append(line, center)
	for p := dir.Next(c); g.has(p); p = dir.Next(p) {
		line = append(line, g.dropped[p])
	}
	return line
}

// multiWidestLine is the line along dir that dropping toks on a..b would
// form: whatever touches a from behind, then toks, then whatever touches b
// from the front. Cells between a and b are not inspected.
func (g *GameBoard) multiWidestLine(toks []tiles.Token, a, b Coord, dir Direction) []tiles.Token {
	var line []tiles.Token
	if before := dir.Prev(a); g.has(before) {
		line = append(line, g.lineThrough(before, g.dropped[before], dir)...)
	}
	line = append(line, toks...)
	if after := dir.Next(b); g.has(after) {
		line = append(line, g.lineThrough(after, g.dropped[after], dir)...)
	}
	return line
}
