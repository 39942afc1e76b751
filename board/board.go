// Package board implements the unbounded playing surface: which cells hold
// which tokens, how lines are read off it, whether a placement is legal,
// and what a placement scores.
package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/nutok/nutok/tiles"
)

var (
	ErrNoToken       = errors.New("no token at this location")
	ErrOccupied      = errors.New("there is already a token at this location")
	ErrBoardNotEmpty = errors.New("the first token can only go on an empty board")
)

// A GameBoard is a sparse grid of dropped tokens. Every occupied cell's
// vertical and horizontal line is consistent, as long as all mutations go
// through AddSingleToken and AddMultiToken.
type GameBoard struct {
	order   int
	catalog *tiles.Catalog
	dropped map[Coord]tiles.Token
}

// A Placement is a token at a cell.
type Placement struct {
	Coord
	Token tiles.Token
}

// MakeBoard returns an empty board for the given order.
func MakeBoard(order int) (*GameBoard, error) {
	c, err := tiles.NewCatalog(order)
	if err != nil {
		return nil, err
	}
	return &GameBoard{
		order:   order,
		catalog: c,
		dropped: make(map[Coord]tiles.Token),
	}, nil
}

func (g *GameBoard) Order() int {
	return g.order
}

func (g *GameBoard) Catalog() *tiles.Catalog {
	return g.catalog
}

// Len is the number of tokens on the board.
func (g *GameBoard) Len() int {
	return len(g.dropped)
}

func (g *GameBoard) IsEmpty() bool {
	return len(g.dropped) == 0
}

func (g *GameBoard) HasTokenAt(row, col int) bool {
	_, ok := g.dropped[Coord{row, col}]
	return ok
}

func (g *GameBoard) has(c Coord) bool {
	_, ok := g.dropped[c]
	return ok
}

// GetToken returns the token at (row, col), or ErrNoToken if it is empty.
func (g *GameBoard) GetToken(row, col int) (tiles.Token, error) {
	t, ok := g.dropped[Coord{row, col}]
	if !ok {
		return tiles.Token{}, fmt.Errorf("%v: %w", Coord{row, col}, ErrNoToken)
	}
	return t, nil
}

// RawToken returns the token at (row, col) and whether there was one.
func (g *GameBoard) RawToken(row, col int) (tiles.Token, bool) {
	t, ok := g.dropped[Coord{row, col}]
	return t, ok
}

// HasNeighbor says whether any of the four cells around (row, col) holds a
// token. The content of (row, col) itself is ignored.
func (g *GameBoard) HasNeighbor(row, col int) bool {
	for _, n := range (Coord{row, col}).Neighborhood() {
		if g.has(n) {
			return true
		}
	}
	return false
}

// AddSingleTokenNoCheck writes a token without checking any rule. It exists
// for bootstrapping and for setting up positions in tests.
func (g *GameBoard) AddSingleTokenNoCheck(t tiles.Token, row, col int) {
	g.dropped[Coord{row, col}] = t
}

// DropFirstToken bootstraps an empty board with a token at the origin.
func (g *GameBoard) DropFirstToken(t tiles.Token) error {
	if !g.IsEmpty() {
		return ErrBoardNotEmpty
	}
	log.Debug().Str("token", t.String()).Msg("drop-first-token")
	g.AddSingleTokenNoCheck(t, 0, 0)
	return nil
}

// Placements lists every dropped token, sorted by row then column.
func (g *GameBoard) Placements() []Placement {
	ps := make([]Placement, 0, len(g.dropped))
	for c, t := range g.dropped {
		ps = append(ps, Placement{Coord: c, Token: t})
	}
	sort.Slice(ps, func(i, j int) bool {
		return less(ps[i].Coord, ps[j].Coord)
	})
	return ps
}

// Clear removes every token.
func (g *GameBoard) Clear() {
	g.dropped = make(map[Coord]tiles.Token)
}

// Copy returns an independent board with the same tokens.
func (g *GameBoard) Copy() *GameBoard {
	dropped := make(map[Coord]tiles.Token, len(g.dropped))
	for k, v := range g.dropped {
		dropped[k] = v
	}
	return &GameBoard{
		order:   g.order,
		catalog: g.catalog,
		dropped: dropped,
	}
}

// Equals compares the contents of two boards.
func (g *GameBoard) Equals(g2 *GameBoard) bool {
	if g.order != g2.order || len(g.dropped) != len(g2.dropped) {
		return false
	}
	for k, v := range g.dropped {
		if v2, ok := g2.dropped[k]; !ok || v2 != v {
			return false
		}
	}
	return true
}

// Extents returns the smallest and largest occupied row and column. ok is
// false on an empty board, where extents are undefined.
func (g *GameBoard) Extents() (minRow, maxRow, minCol, maxCol int, ok bool) {
	first := true
	for c := range g.dropped {
		if first {
			minRow, maxRow, minCol, maxCol = c.Row, c.Row, c.Col, c.Col
			first = false
			continue
		}
		minRow = min(minRow, c.Row)
		maxRow = max(maxRow, c.Row)
		minCol = min(minCol, c.Col)
		maxCol = max(maxCol, c.Col)
	}
	return minRow, maxRow, minCol, maxCol, !first
}
