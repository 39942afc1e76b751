// Package tiles holds the token universe of the game: the shape and color
// attributes, the Token value built from them, the Catalog that bounds the
// tokens in play for a given order, and the Stack players draw from.
package tiles

import (
	"fmt"
	"unicode/utf8"
)

// MaxOrder is the number of variants of both Shape and Color. An order
// truncates each enumeration to its first `order` variants.
const MaxOrder = 8

// A Shape is the first attribute of a Token. Its value is its ordinal.
type Shape uint8

const (
	Square Shape = iota
	Diamond
	Circle
	Spade
	Star
	Arrow
	Cross
	Knight
)

// A Color is the second attribute of a Token. Its value is its ordinal.
type Color uint8

const (
	Purple Color = iota
	Blue
	Turquoise
	Green
	Yellow
	Orange
	Red
	White
)

var shapeGlyphs = [MaxOrder]rune{'■', '◆', '●', '♠', '🟊', '↕', '⨯', 'N'}

var shapeNames = [MaxOrder]string{
	"square", "diamond", "circle", "spade", "star", "arrow", "cross", "knight",
}

// shapeLetters are typeable stand-ins for the glyphs above.
var shapeLetters = [MaxOrder]rune{'s', 'd', 'c', 'p', 't', 'a', 'x', 'n'}

var colorGlyphs = [MaxOrder]rune{'p', 'b', 't', 'g', 'y', 'o', 'r', 'w'}

var colorNames = [MaxOrder]string{
	"purple", "blue", "turquoise", "green", "yellow", "orange", "red", "white",
}

func (s Shape) Valid() bool { return s < MaxOrder }
func (c Color) Valid() bool { return c < MaxOrder }

// Glyph is the one-rune rendering of the shape.
func (s Shape) Glyph() rune {
	if !s.Valid() {
		return '?'
	}
	return shapeGlyphs[s]
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Glyph is the one-rune rendering of the color.
func (c Color) Glyph() rune {
	if !c.Valid() {
		return '?'
	}
	return colorGlyphs[c]
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// A Token is the placeable unit: an immutable (shape, color) pair. Tokens
// are comparable with == and usable as map keys.
type Token struct {
	Shape Shape
	Color Color
}

// NewToken is a small convenience for readability at call sites.
func NewToken(s Shape, c Color) Token {
	return Token{Shape: s, Color: c}
}

func (t Token) valid() bool {
	return t.Shape.Valid() && t.Color.Valid()
}

// String renders the token as its fixed two-glyph pair, shape first.
func (t Token) String() string {
	return string([]rune{t.Shape.Glyph(), t.Color.Glyph()})
}

// Width is the number of runes a rendered token occupies.
func Width() int {
	return utf8.RuneCountInString(NewToken(Square, Purple).String())
}

// ParseToken turns a two-rune description back into a Token. The shape may
// be given either as its glyph or as its ASCII letter (s d c p t a x n).
func ParseToken(s string) (Token, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Token{}, fmt.Errorf("token %q: %w", s, ErrBadToken)
	}
	var tok Token
	shapeFound, colorFound := false, false
	for i := 0; i < MaxOrder; i++ {
		if runes[0] == shapeGlyphs[i] || runes[0] == shapeLetters[i] {
			tok.Shape = Shape(i)
			shapeFound = true
		}
		if runes[1] == colorGlyphs[i] {
			tok.Color = Color(i)
			colorFound = true
		}
	}
	if !shapeFound || !colorFound {
		return Token{}, fmt.Errorf("token %q: %w", s, ErrBadToken)
	}
	return tok, nil
}

// ParseTokens parses each description in turn.
func ParseTokens(ss []string) ([]Token, error) {
	toks := make([]Token, len(ss))
	for i, s := range ss {
		t, err := ParseToken(s)
		if err != nil {
			return nil, err
		}
		toks[i] = t
	}
	return toks, nil
}

// TokensString renders a sequence of tokens separated by spaces.
func TokensString(toks []Token) string {
	var out []rune
	for i, t := range toks {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, t.Shape.Glyph(), t.Color.Glyph())
	}
	return string(out)
}
