package game

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nutok/nutok/tiles"
)

type playerState struct {
	Nickname string
	UserID   string

	hand   []tiles.Token
	points int
	turns  int
}

func newPlayerState(nickname string) *playerState {
	return &playerState{
		Nickname: nickname,
		UserID:   uuid.NewString(),
	}
}

func (p *playerState) resetScore() {
	p.points = 0
	p.turns = 0
}

// refill draws from the stack until the hand holds size tokens or the stack
// runs dry. It reports whether the hand could be filled completely.
func (p *playerState) refill(stack *tiles.Stack, size int) bool {
	missing := size - len(p.hand)
	if missing <= 0 {
		return true
	}
	drawn := stack.PickAtMost(missing)
	p.hand = append(p.hand, drawn...)
	if len(drawn) < missing {
		log.Debug().Str("player", p.Nickname).Int("missing", missing-len(drawn)).
			Msg("hand-short")
		return false
	}
	return true
}

// take removes the tokens at the given hand indexes, which must be valid and
// distinct, and returns them in the order the indexes were given.
func (p *playerState) take(idxs []int) []tiles.Token {
	taken := make([]tiles.Token, len(idxs))
	drop := make(map[int]bool, len(idxs))
	for i, idx := range idxs {
		taken[i] = p.hand[idx]
		drop[idx] = true
	}
	kept := p.hand[:0]
	for i, t := range p.hand {
		if !drop[i] {
			kept = append(kept, t)
		}
	}
	p.hand = kept
	return taken
}

func (p *playerState) handCopy() []tiles.Token {
	h := make([]tiles.Token, len(p.hand))
	copy(h, p.hand)
	return h
}

type playerStates []*playerState

func (p playerStates) resetHands() {
	for idx := range p {
		p[idx].hand = nil
	}
}

func (p playerStates) resetScore() {
	for idx := range p {
		p[idx].resetScore()
	}
}
