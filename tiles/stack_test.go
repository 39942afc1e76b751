package tiles

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func countTokens(toks []Token) map[Token]int {
	m := map[Token]int{}
	for _, t := range toks {
		m[t]++
	}
	return m
}

func TestNewStack(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(4)
	is.NoErr(err)
	s := NewStack(c, NewRNG(42))
	is.Equal(s.Remaining(), Copies*16)
	for tok, n := range countTokens(s.Peek()) {
		is.True(c.Contains(tok))
		is.Equal(n, Copies)
	}
}

func TestStackDeterministic(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(5)
	is.NoErr(err)
	a := NewStack(c, NewRNG(7))
	b := NewStack(c, NewRNG(7))
	is.Equal(a.Peek(), b.Peek())
}

func TestPickUntilEmpty(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(2)
	is.NoErr(err)
	s := NewStack(c, NewRNG(1))
	drawn := []Token{}
	for !s.IsEmpty() {
		last := s.Peek()[s.Remaining()-1]
		tok, err := s.Pick()
		is.NoErr(err)
		is.Equal(tok, last)
		drawn = append(drawn, tok)
	}
	is.Equal(len(drawn), Copies*4)
	_, err = s.Pick()
	is.True(errors.Is(err, ErrEmptyStack))
}

func TestPickAtMost(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(1)
	is.NoErr(err)
	s := NewStack(c, NewRNG(1))
	is.Equal(len(s.PickAtMost(2)), 2)
	is.Equal(len(s.PickAtMost(5)), 1)
	is.True(s.IsEmpty())
}

func TestRandomInsert(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(3)
	is.NoErr(err)
	s := NewStack(c, NewRNG(99))
	before := s.Peek()
	tok, err := s.Pick()
	is.NoErr(err)
	is.NoErr(s.RandomInsert(tok))
	is.Equal(s.Remaining(), len(before))
	assert.ElementsMatch(t, before, s.Peek())

	err = s.RandomInsert(NewToken(Knight, White))
	is.True(errors.Is(err, ErrNotInCatalog))
	is.Equal(s.Remaining(), len(before))
}

func TestRandomInsertEmpty(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(1)
	is.NoErr(err)
	s := NewStack(c, NewRNG(3))
	s.PickAtMost(Copies)
	is.True(s.IsEmpty())
	is.NoErr(s.RandomInsert(NewToken(Square, Purple)))
	is.Equal(s.Remaining(), 1)
}

func TestExchange(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(3)
	is.NoErr(err)
	s := NewStack(c, NewRNG(5))
	hand := s.PickAtMost(3)
	n := s.Remaining()
	_, err = s.Exchange(hand[0])
	is.NoErr(err)
	is.Equal(s.Remaining(), n)

	s.PickAtMost(s.Remaining())
	_, err = s.Exchange(hand[1])
	is.True(errors.Is(err, ErrEmptyStack))
}
