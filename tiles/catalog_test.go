package tiles

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

var (
	sp = NewToken(Square, Purple)
	dp = NewToken(Diamond, Purple)
	cp = NewToken(Circle, Purple)
	sb = NewToken(Square, Blue)
	db = NewToken(Diamond, Blue)
	st = NewToken(Square, Turquoise)
	ct = NewToken(Circle, Turquoise)
)

func TestCatalogSizes(t *testing.T) {
	is := is.New(t)
	for order := 1; order <= MaxOrder; order++ {
		c, err := NewCatalog(order)
		is.NoErr(err)
		is.Equal(c.Size(), order*order)
		is.Equal(len(c.All()), order*order)
		is.Equal(c.Order(), order)
	}
}

func TestCatalogInvalidOrder(t *testing.T) {
	is := is.New(t)
	for _, order := range []int{-1, 0, 9, 100} {
		c, err := NewCatalog(order)
		is.True(c == nil)
		is.True(errors.Is(err, ErrInvalidOrder))
	}
}

func TestCatalogContains(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(3)
	is.NoErr(err)
	is.True(c.Contains(sp))
	is.True(c.Contains(ct))
	is.True(!c.Contains(NewToken(Spade, Purple)))
	is.True(!c.Contains(NewToken(Square, Green)))
	is.True(!c.Contains(Token{Shape: 12, Color: 0}))
}

func TestCatalogString(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(2)
	is.NoErr(err)
	is.Equal(c.String(), "<(■p),(■b),(◆p),(◆b)>")
}

func TestTokenEquality(t *testing.T) {
	is := is.New(t)
	for i := 0; i < MaxOrder; i++ {
		for j := 0; j < MaxOrder; j++ {
			tia, tja := NewToken(Shape(i), Purple), NewToken(Shape(j), Purple)
			tib, tjb := NewToken(Shape(i), Blue), NewToken(Shape(j), Blue)
			is.Equal(tia == tja, i == j)
			is.Equal(tib == tjb, i == j)
			is.True(tia != tjb)
			is.True(tib != tja)
		}
	}
}

func TestLineConsistency(t *testing.T) {
	c, err := NewCatalog(3)
	if err != nil {
		t.Fatal(err)
	}
	type testcase struct {
		name string
		line []Token
		want bool
	}
	cases := []testcase{
		{"empty", nil, true},
		{"single", []Token{sp}, true},
		{"same color", []Token{sp, dp, cp}, true},
		{"same shape", []Token{sp, sb, st}, true},
		{"duplicate", []Token{sp, sp}, false},
		{"unrelated", []Token{sp, db}, false},
		{"too long", []Token{sp, dp, cp, sp}, false},
		{"color repeated on shape line", []Token{sp, sb, sp}, false},
		{"shape breaks shape line", []Token{sp, sb, ct}, false},
		{"shape repeated on color line", []Token{sp, dp, sp}, false},
		{"color breaks color line", []Token{sp, dp, ct}, false},
	}
	for _, tc := range cases {
		if got := c.LineConsistent(tc.line); got != tc.want {
			t.Errorf("%s: LineConsistent(%v) = %v, want %v", tc.name,
				TokensString(tc.line), got, tc.want)
		}
	}
}

func TestLineConsistencyPairs(t *testing.T) {
	is := is.New(t)
	c, err := NewCatalog(MaxOrder)
	is.NoErr(err)
	for _, a := range c.All() {
		for _, b := range c.All() {
			sharesOne := (a.Shape == b.Shape) != (a.Color == b.Color)
			is.Equal(c.LineConsistent([]Token{a, b}), a != b && sharesOne)
		}
	}
}

func TestLineConsistencyLongerThanOrder(t *testing.T) {
	is := is.New(t)
	for order := 1; order < MaxOrder; order++ {
		c, err := NewCatalog(order)
		is.NoErr(err)
		line := make([]Token, 0, order+1)
		for s := 0; s <= order; s++ {
			line = append(line, NewToken(Shape(s), Purple))
		}
		is.True(!c.LineConsistent(line))
		is.True(c.LineConsistent(line[:order]))
	}
}

func TestParseToken(t *testing.T) {
	is := is.New(t)
	tok, err := ParseToken("■p")
	is.NoErr(err)
	is.Equal(tok, sp)

	tok, err = ParseToken("ct")
	is.NoErr(err)
	is.Equal(tok, ct)

	tok, err = ParseToken("pw")
	is.NoErr(err)
	is.Equal(tok, NewToken(Spade, White))

	for _, bad := range []string{"", "s", "sq", "zz", "■p■"} {
		_, err = ParseToken(bad)
		is.True(errors.Is(err, ErrBadToken))
	}

	for _, tok := range func() []Token { c, _ := NewCatalog(MaxOrder); return c.All() }() {
		back, err := ParseToken(tok.String())
		is.NoErr(err)
		is.Equal(back, tok)
	}
}

func TestTokenRendering(t *testing.T) {
	is := is.New(t)
	is.Equal(sp.String(), "■p")
	is.Equal(NewToken(Star, Yellow).String(), "🟊y")
	is.Equal(Width(), 2)
	is.Equal(TokensString([]Token{sp, dp}), "■p ◆p")
}
