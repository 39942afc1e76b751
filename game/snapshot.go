package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

var ErrSnapshotMismatch = errors.New("snapshot does not replay to the same game")

// A Snapshot is everything needed to rebuild a game: the seed fixes the
// stack, and the events are replayed on top of it.
type Snapshot struct {
	ID      string          `yaml:"id"`
	Order   int             `yaml:"order"`
	Seed    uint64          `yaml:"seed"`
	Players []string        `yaml:"players,flow"`
	Events  []SnapshotEvent `yaml:"events"`
}

type SnapshotEvent struct {
	Kind   string   `yaml:"kind"`
	Player int      `yaml:"player"`
	Hand   []int    `yaml:"hand,omitempty,flow"`
	Tokens []string `yaml:"tokens,omitempty,flow"`
	From   []int    `yaml:"from,omitempty,flow"`
	To     []int    `yaml:"to,omitempty,flow"`
	Score  int      `yaml:"score,omitempty"`
}

func coordPair(c board.Coord) []int {
	return []int{c.Row, c.Col}
}

func pairCoord(p []int) (board.Coord, error) {
	if len(p) != 2 {
		return board.Coord{}, fmt.Errorf("coordinate %v is not a (row, col) pair", p)
	}
	return board.Coord{Row: p[0], Col: p[1]}, nil
}

// Snapshot records the game so far.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:      g.uid,
		Order:   g.order,
		Seed:    g.seed,
		Players: g.Nicknames(),
	}
	for _, e := range g.history {
		se := SnapshotEvent{
			Kind:   e.Kind.String(),
			Player: e.Player,
			Hand:   e.HandIndexes,
			Score:  e.Score,
		}
		for _, t := range e.Tokens {
			se.Tokens = append(se.Tokens, t.String())
		}
		if e.Kind == EventPlay {
			se.From = coordPair(e.From)
			se.To = coordPair(e.To)
		}
		s.Events = append(s.Events, se)
	}
	return s
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func ParseSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FromSnapshot starts a fresh game with the snapshot's seed and replays
// every event. Any event that does not produce what was recorded fails the
// load with ErrSnapshotMismatch.
func FromSnapshot(s *Snapshot) (*Game, error) {
	if s.Seed == 0 {
		return nil, fmt.Errorf("snapshot has no seed: %w", ErrSnapshotMismatch)
	}
	g, err := NewGame(s.Order, s.Players, s.Seed)
	if err != nil {
		return nil, err
	}
	if s.ID != "" {
		g.uid = s.ID
	}
	g.StartGame()
	for i, se := range s.Events {
		if err := g.replay(se); err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	log.Debug().Str("id", g.uid).Int("events", len(s.Events)).Msg("snapshot-replayed")
	return g, nil
}

func (g *Game) replay(se SnapshotEvent) error {
	kind, err := parseEventKind(se.Kind)
	if err != nil {
		return err
	}
	if g.playing == Playing && se.Player != g.onturn {
		return fmt.Errorf("player %d moved on player %d's turn: %w", se.Player, g.onturn, ErrSnapshotMismatch)
	}
	want, err := tiles.ParseTokens(se.Tokens)
	if err != nil {
		return err
	}

	var evt *Event
	switch kind {
	case EventPlay:
		from, err := pairCoord(se.From)
		if err != nil {
			return err
		}
		to, err := pairCoord(se.To)
		if err != nil {
			return err
		}
		evt, err = g.PlayTokens(se.Hand, from, to)
		if err != nil {
			return err
		}
		if evt.Score != se.Score {
			return fmt.Errorf("scored %d, recorded %d: %w", evt.Score, se.Score, ErrSnapshotMismatch)
		}
	case EventExchange:
		if len(se.Hand) != 1 {
			return fmt.Errorf("exchange of %d tokens: %w", len(se.Hand), ErrInvalidHandIndex)
		}
		evt, err = g.Exchange(se.Hand[0])
		if err != nil {
			return err
		}
	case EventQuit:
		_, err = g.Quit()
		return err
	}
	if !slices.Equal(evt.Tokens, want) {
		return fmt.Errorf("moved %s, recorded %s: %w", tiles.TokensString(evt.Tokens),
			tiles.TokensString(want), ErrSnapshotMismatch)
	}
	return nil
}
