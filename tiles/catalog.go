package tiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidOrder = errors.New("order must be between 1 and 8")
	ErrBadToken     = errors.New("not a valid token description")
	ErrNotInCatalog = errors.New("token is not part of the catalog")
)

// A Catalog is the bounded universe of tokens for an order: the cross
// product of the first `order` shapes and the first `order` colors.
type Catalog struct {
	order  int
	tokens []Token
	// members is indexed by [shape][color].
	members [MaxOrder][MaxOrder]bool
}

// NewCatalog builds the order² tokens of the catalog, shape-major.
func NewCatalog(order int) (*Catalog, error) {
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("catalog of order %d: %w", order, ErrInvalidOrder)
	}
	c := &Catalog{
		order:  order,
		tokens: make([]Token, 0, order*order),
	}
	for s := 0; s < order; s++ {
		for col := 0; col < order; col++ {
			c.tokens = append(c.tokens, NewToken(Shape(s), Color(col)))
			c.members[s][col] = true
		}
	}
	log.Debug().Int("order", order).Int("size", len(c.tokens)).Msg("new-catalog")
	return c, nil
}

// Order is the number of distinct shapes and colors in play. It is also the
// longest legal line.
func (c *Catalog) Order() int {
	return c.order
}

// Size returns order².
func (c *Catalog) Size() int {
	return len(c.tokens)
}

// All returns a copy of every catalog token.
func (c *Catalog) All() []Token {
	ret := make([]Token, len(c.tokens))
	copy(ret, c.tokens)
	return ret
}

func (c *Catalog) Contains(t Token) bool {
	if !t.Shape.Valid() || !t.Color.Valid() {
		return false
	}
	return c.members[t.Shape][t.Color]
}

func (c *Catalog) String() string {
	parts := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		parts[i] = "(" + t.String() + ")"
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// LineConsistent says whether a sequence of tokens may sit in one line.
// A consistent line shares exactly one attribute and is pairwise distinct on
// the other. Empty and single-token lines are trivially consistent.
//
// The shared attribute is decided by the first two tokens of the sequence
// only, so callers must pass tokens in board traversal order.
func (c *Catalog) LineConsistent(line []Token) bool {
	if len(line) <= 1 {
		return true
	}
	if len(line) > c.order {
		return false
	}
	a, b := line[0], line[1]
	if !a.valid() || !b.valid() {
		return false
	}
	if a == b {
		return false
	}
	if a.Shape != b.Shape && a.Color != b.Color {
		return false
	}

	if a.Shape == b.Shape {
		var seen [MaxOrder]bool
		seen[a.Color] = true
		seen[b.Color] = true
		for _, t := range line[2:] {
			if t.Shape != a.Shape || !t.valid() || seen[t.Color] {
				return false
			}
			seen[t.Color] = true
		}
		return true
	}

	// a.Color == b.Color here.
	var seen [MaxOrder]bool
	seen[a.Shape] = true
	seen[b.Shape] = true
	for _, t := range line[2:] {
		if t.Color != a.Color || !t.valid() || seen[t.Shape] {
			return false
		}
		seen[t.Shape] = true
	}
	return true
}
