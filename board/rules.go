package board

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/nutok/nutok/tiles"
)

// SingleDroppable says whether t may be dropped at (row, col): the cell is
// empty, it touches at least one token, and both lines through it stay
// consistent. It assumes the board already follows the rules.
func (g *GameBoard) SingleDroppable(t tiles.Token, row, col int) bool {
	c := Coord{row, col}
	// You cannot drop on top of an existing token.
	if g.has(c) {
		return false
	}
	// You must drop against an existing token.
	if !g.HasNeighbor(row, col) {
		return false
	}
	if !g.catalog.LineConsistent(g.lineThrough(c, t, VerticalDirection)) {
		return false
	}
	return g.catalog.LineConsistent(g.lineThrough(c, t, HorizontalDirection))
}

// AddSingleToken drops t at (row, col) if SingleDroppable allows it, and
// reports whether it did. A rejected token leaves the board untouched.
func (g *GameBoard) AddSingleToken(t tiles.Token, row, col int) bool {
	if !g.SingleDroppable(t, row, col) {
		log.Debug().Str("token", t.String()).Int("row", row).Int("col", col).
			Msg("single-drop-rejected")
		return false
	}
	g.AddSingleTokenNoCheck(t, row, col)
	return true
}

// MultiDroppable says whether toks may be dropped, in order, on the
// straight run from a to b inclusive. a and b must share a row or a column,
// a must not come after b, and the run must hold exactly len(toks) cells;
// breaking any of these is an error rather than a rejected move.
func (g *GameBoard) MultiDroppable(toks []tiles.Token, a, b Coord) (bool, error) {
	cells, dir, err := Run(a, b)
	if err != nil {
		return false, err
	}
	if len(cells) != len(toks) {
		return false, fmt.Errorf("%d cells for %d tokens: %w", len(cells), len(toks), ErrRunLength)
	}
	return g.multiDroppable(toks, cells, dir), nil
}

func (g *GameBoard) multiDroppable(toks []tiles.Token, cells []Coord, dir Direction) bool {
	if len(toks) == 1 {
		return g.SingleDroppable(toks[0], cells[0].Row, cells[0].Col)
	}
	// A consistent line never has more tokens than the order.
	if len(toks) > g.order {
		return false
	}
	for _, c := range cells {
		if g.has(c) {
			return false
		}
	}
	perp := dir.Perpendicular()
	for i, c := range cells {
		if !g.catalog.LineConsistent(g.lineThrough(c, toks[i], perp)) {
			return false
		}
	}
	mainLine := g.multiWidestLine(toks, cells[0], cells[len(cells)-1], dir)
	return g.catalog.LineConsistent(mainLine)
}

// AddMultiToken drops toks on the run from a to b if MultiDroppable allows
// it. Either every cell is written or none is.
func (g *GameBoard) AddMultiToken(toks []tiles.Token, a, b Coord) (bool, error) {
	cells, dir, err := Run(a, b)
	if err != nil {
		return false, err
	}
	if len(cells) != len(toks) {
		return false, fmt.Errorf("%d cells for %d tokens: %w", len(cells), len(toks), ErrRunLength)
	}
	if !g.multiDroppable(toks, cells, dir) {
		log.Debug().Str("tokens", tiles.TokensString(toks)).Stringer("from", a).
			Stringer("to", b).Msg("multi-drop-rejected")
		return false, nil
	}
	for i, c := range cells {
		g.dropped[c] = toks[i]
	}
	return true, nil
}

// AllNearestEmptyLocations returns every empty cell orthogonally adjacent to
// a token: the frontier where the next token may go. Cells are unique and
// sorted by row, then column.
func (g *GameBoard) AllNearestEmptyLocations() []Coord {
	seen := make(map[Coord]struct{})
	for c := range g.dropped {
		for _, n := range c.Neighborhood() {
			if !g.has(n) {
				seen[n] = struct{}{}
			}
		}
	}
	locs := lo.Keys(seen)
	sort.Slice(locs, func(i, j int) bool { return less(locs[i], locs[j]) })
	return locs
}

// DroppableLocations filters the frontier down to the cells where t is
// SingleDroppable.
func (g *GameBoard) DroppableLocations(t tiles.Token) []Coord {
	return lo.Filter(g.AllNearestEmptyLocations(), func(c Coord, _ int) bool {
		return g.SingleDroppable(t, c.Row, c.Col)
	})
}
