package tiles

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// Copies is how many of each catalog token a fresh Stack holds.
const Copies = 3

var ErrEmptyStack = errors.New("the stack is empty")

// NewRNG returns a deterministic generator for the given seed. A zero seed
// is replaced by a random one; use RandomSeed first if the seed must be
// reported.
func NewRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		seed = RandomSeed()
	}
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	binary.LittleEndian.PutUint64(b[8:16], seed^0x9e3779b97f4a7c15)
	return frand.NewCustom(b[:], 1024, 12)
}

// RandomSeed draws a non-zero seed from the system entropy pool.
func RandomSeed() uint64 {
	return frand.Uint64n(1<<63-1) + 1
}

// A Stack is the draw pile. It starts with Copies of every catalog token in
// random order. Tokens leave through Pick and only come back through
// RandomInsert.
type Stack struct {
	tokens  []Token
	catalog *Catalog
	rng     *frand.RNG
}

// NewStack fills and shuffles a stack for the catalog. The stack owns rng
// from now on.
func NewStack(c *Catalog, rng *frand.RNG) *Stack {
	s := &Stack{
		tokens:  make([]Token, 0, Copies*c.Size()),
		catalog: c,
		rng:     rng,
	}
	for i := 0; i < Copies; i++ {
		s.tokens = append(s.tokens, c.All()...)
	}
	s.Shuffle()
	return s
}

func (s *Stack) IsEmpty() bool {
	return len(s.tokens) == 0
}

func (s *Stack) Remaining() int {
	return len(s.tokens)
}

// Pick removes and returns the token at the end of the stack. Callers must
// check IsEmpty first; picking from an empty stack is an error.
func (s *Stack) Pick() (Token, error) {
	if s.IsEmpty() {
		return Token{}, ErrEmptyStack
	}
	last := len(s.tokens) - 1
	t := s.tokens[last]
	s.tokens = s.tokens[:last]
	return t, nil
}

// PickAtMost picks up to n tokens, fewer if the stack runs out.
func (s *Stack) PickAtMost(n int) []Token {
	if n > len(s.tokens) {
		n = len(s.tokens)
	}
	drawn := make([]Token, 0, n)
	for i := 0; i < n; i++ {
		t, _ := s.Pick()
		drawn = append(drawn, t)
	}
	return drawn
}

// RandomInsert puts a token back at a uniformly random position, so that it
// is not simply drawn again on the next Pick.
func (s *Stack) RandomInsert(t Token) error {
	if !s.catalog.Contains(t) {
		return fmt.Errorf("cannot return %v to the stack: %w", t, ErrNotInCatalog)
	}
	if s.IsEmpty() {
		s.tokens = append(s.tokens, t)
		return nil
	}
	idx := s.rng.Intn(len(s.tokens))
	s.tokens = append(s.tokens, Token{})
	copy(s.tokens[idx+1:], s.tokens[idx:])
	s.tokens[idx] = t
	return nil
}

// Exchange returns t to the stack and draws a replacement.
func (s *Stack) Exchange(t Token) (Token, error) {
	if s.IsEmpty() {
		return Token{}, ErrEmptyStack
	}
	if err := s.RandomInsert(t); err != nil {
		return Token{}, err
	}
	drawn, err := s.Pick()
	if err != nil {
		return Token{}, err
	}
	log.Debug().Str("returned", t.String()).Str("drawn", drawn.String()).Msg("stack-exchange")
	return drawn, nil
}

// Shuffle randomly permutes the whole stack.
func (s *Stack) Shuffle() {
	s.rng.Shuffle(len(s.tokens), func(i, j int) {
		s.tokens[i], s.tokens[j] = s.tokens[j], s.tokens[i]
	})
}

// Peek returns a copy of the stack contents, bottom first.
func (s *Stack) Peek() []Token {
	ret := make([]Token, len(s.tokens))
	copy(ret, s.tokens)
	return ret
}

func (s *Stack) Catalog() *Catalog {
	return s.catalog
}
