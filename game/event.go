package game

import (
	"fmt"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

// EventKind tells what a player did on their turn.
type EventKind uint8

const (
	EventPlay EventKind = iota
	EventExchange
	EventQuit
)

var eventKindNames = map[EventKind]string{
	EventPlay:     "play",
	EventExchange: "exchange",
	EventQuit:     "quit",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

func parseEventKind(s string) (EventKind, error) {
	for k, name := range eventKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// An Event is one entry of the game history.
type Event struct {
	Kind   EventKind
	Player int
	// HandIndexes are 0-based positions in the hand at the time of the move.
	HandIndexes []int
	// Tokens are the tokens that left the hand, in HandIndexes order.
	Tokens []tiles.Token
	// From and To delimit the placed run; they are equal for a single token.
	From  board.Coord
	To    board.Coord
	Score int
	// Cumulative is the player's total after this event.
	Cumulative int
}

func (e *Event) String() string {
	switch e.Kind {
	case EventPlay:
		if e.From == e.To {
			return fmt.Sprintf("player %d played %s at %v for %d (total %d)",
				e.Player, tiles.TokensString(e.Tokens), e.From, e.Score, e.Cumulative)
		}
		return fmt.Sprintf("player %d played %s from %v to %v for %d (total %d)",
			e.Player, tiles.TokensString(e.Tokens), e.From, e.To, e.Score, e.Cumulative)
	case EventExchange:
		return fmt.Sprintf("player %d exchanged %s", e.Player, tiles.TokensString(e.Tokens))
	case EventQuit:
		return fmt.Sprintf("player %d quit", e.Player)
	}
	return e.Kind.String()
}
