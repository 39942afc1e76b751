// Package game drives a match on top of the board rules: the stack, the
// players' hands, turns, scoring and the move history.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

var (
	ErrNoPlayers          = errors.New("a game needs at least one player")
	ErrNotStarted         = errors.New("the game has not started")
	ErrGameOver           = errors.New("the game is over")
	ErrInvalidHandIndex   = errors.New("invalid hand index")
	ErrDuplicateHandIndex = errors.New("hand index used more than once")
	ErrIllegalPlacement   = errors.New("tokens cannot be dropped there")
	ErrStackEmpty         = errors.New("the stack is empty, there is nothing to exchange with")
)

// PlayState is where a game is in its lifecycle.
type PlayState uint8

const (
	NotStarted PlayState = iota
	Playing
	GameOver
)

func (p PlayState) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Playing:
		return "playing"
	case GameOver:
		return "game-over"
	}
	return fmt.Sprintf("PlayState(%d)", p)
}

// Game holds everything about one match. A Game does not care who plays
// it; the shell and the autoplay runner both drive it through the same
// calls.
type Game struct {
	uid   string
	order int
	seed  uint64

	board *board.GameBoard
	stack *tiles.Stack
	first tiles.Token

	playing   PlayState
	endReason string
	onturn    int
	turnnum   int
	players   playerStates
	history   []*Event
}

// NewGame sets up a game of the given order for the given players. A zero
// seed is replaced by a random one, which Seed reports.
func NewGame(order int, nicknames []string, seed uint64) (*Game, error) {
	if len(nicknames) == 0 {
		return nil, ErrNoPlayers
	}
	b, err := board.MakeBoard(order)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = tiles.RandomSeed()
	}
	g := &Game{
		uid:   uuid.NewString(),
		order: order,
		seed:  seed,
		board: b,
	}
	g.players = make(playerStates, len(nicknames))
	for idx, nick := range nicknames {
		g.players[idx] = newPlayerState(nick)
	}
	return g, nil
}

// StartGame builds a fresh stack from the seed, drops its top token at the
// origin and deals every hand.
func (g *Game) StartGame() {
	g.board.Clear()
	log.Debug().Uint64("seed", g.seed).Int("order", g.order).Msg("starting-game")
	g.stack = tiles.NewStack(g.board.Catalog(), tiles.NewRNG(g.seed))

	first, err := g.stack.Pick()
	if err != nil {
		panic(err)
	}
	if err := g.board.DropFirstToken(first); err != nil {
		panic(err)
	}
	g.first = first

	g.players.resetHands()
	g.players.resetScore()
	for _, p := range g.players {
		p.refill(g.stack, g.HandSize())
	}
	g.history = nil
	g.endReason = ""
	g.playing = Playing
	g.turnnum = 0
	g.onturn = 0
}

func (g *Game) checkPlaying() error {
	switch g.playing {
	case NotStarted:
		return ErrNotStarted
	case GameOver:
		return ErrGameOver
	}
	return nil
}

func (g *Game) validateHandIndexes(idxs []int) error {
	hand := g.players[g.onturn].hand
	if len(idxs) == 0 {
		return fmt.Errorf("no token chosen: %w", ErrInvalidHandIndex)
	}
	for _, idx := range idxs {
		if idx < 0 || idx >= len(hand) {
			return fmt.Errorf("%d not in [1, %d]: %w", idx+1, len(hand), ErrInvalidHandIndex)
		}
	}
	if dups := lo.FindDuplicates(idxs); len(dups) > 0 {
		return fmt.Errorf("%d: %w", dups[0]+1, ErrDuplicateHandIndex)
	}
	return nil
}

// PlayToken drops the token at 0-based hand index handIdx on (row, col),
// scores it and refills the hand.
func (g *Game) PlayToken(handIdx, row, col int) (*Event, error) {
	c := board.Coord{Row: row, Col: col}
	return g.PlayTokens([]int{handIdx}, c, c)
}

// PlayTokens drops several hand tokens at once on the run from a to b, in
// the order of handIdxs. The run is scored once along its axis, plus once
// across it for every dropped token.
func (g *Game) PlayTokens(handIdxs []int, a, b board.Coord) (*Event, error) {
	if err := g.checkPlaying(); err != nil {
		return nil, err
	}
	if err := g.validateHandIndexes(handIdxs); err != nil {
		return nil, err
	}
	player := g.players[g.onturn]
	toks := lo.Map(handIdxs, func(idx int, _ int) tiles.Token { return player.hand[idx] })

	var ok bool
	if len(toks) == 1 && a == b {
		ok = g.board.AddSingleToken(toks[0], a.Row, a.Col)
	} else {
		var err error
		ok, err = g.board.AddMultiToken(toks, a, b)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		if a == b {
			return nil, fmt.Errorf("%s at %v: %w", tiles.TokensString(toks), a, ErrIllegalPlacement)
		}
		return nil, fmt.Errorf("%s from %v to %v: %w", tiles.TokensString(toks), a, b, ErrIllegalPlacement)
	}
	score, err := g.board.ScoreRun(a, b)
	if err != nil {
		return nil, err
	}

	player.take(handIdxs)
	player.points += score
	player.turns++
	player.refill(g.stack, g.HandSize())

	evt := &Event{
		Kind:        EventPlay,
		Player:      g.onturn,
		HandIndexes: append([]int(nil), handIdxs...),
		Tokens:      toks,
		From:        a,
		To:          b,
		Score:       score,
		Cumulative:  player.points,
	}
	log.Debug().Str("player", player.Nickname).Str("tokens", tiles.TokensString(toks)).
		Int("score", score).Int("total", player.points).Msg("played")
	g.endTurn(evt)
	return evt, nil
}

// Exchange gives the token at hand index handIdx back to the stack, at a
// random position, and draws a replacement. The new token goes at the end
// of the hand.
func (g *Game) Exchange(handIdx int) (*Event, error) {
	if err := g.checkPlaying(); err != nil {
		return nil, err
	}
	if err := g.validateHandIndexes([]int{handIdx}); err != nil {
		return nil, err
	}
	if g.stack.IsEmpty() {
		return nil, ErrStackEmpty
	}
	player := g.players[g.onturn]
	t := player.hand[handIdx]
	drawn, err := g.stack.Exchange(t)
	if err != nil {
		return nil, err
	}
	player.take([]int{handIdx})
	player.hand = append(player.hand, drawn)
	player.turns++

	evt := &Event{
		Kind:        EventExchange,
		Player:      g.onturn,
		HandIndexes: []int{handIdx},
		Tokens:      []tiles.Token{t},
		Cumulative:  player.points,
	}
	g.endTurn(evt)
	return evt, nil
}

// Quit ends the game on behalf of the player on turn.
func (g *Game) Quit() (*Event, error) {
	if err := g.checkPlaying(); err != nil {
		return nil, err
	}
	evt := &Event{
		Kind:       EventQuit,
		Player:     g.onturn,
		Cumulative: g.players[g.onturn].points,
	}
	g.history = append(g.history, evt)
	g.endGame("quit")
	return evt, nil
}

func (g *Game) endTurn(evt *Event) {
	g.history = append(g.history, evt)
	g.turnnum++
	g.onturn = (g.onturn + 1) % len(g.players)

	// The stack is only looked at once everyone has had their turn.
	if g.onturn == 0 && g.stack.IsEmpty() {
		g.endGame("stack-empty")
		return
	}
	if len(g.players[g.onturn].hand) == 0 {
		g.endGame("empty-hand")
	}
}

func (g *Game) endGame(reason string) {
	g.playing = GameOver
	g.endReason = reason
	log.Info().Str("reason", reason).Int("turns", g.turnnum).Msg("game-over")
}

// HandSize is how many tokens a full hand holds: the order of the game.
func (g *Game) HandSize() int {
	return g.order
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) Order() int {
	return g.order
}

// Seed is the seed the stack was built from.
func (g *Game) Seed() uint64 {
	return g.seed
}

func (g *Game) Board() *board.GameBoard {
	return g.board
}

// FirstToken is the token the game was bootstrapped with.
func (g *Game) FirstToken() tiles.Token {
	return g.first
}

// StackRemaining is how many tokens are left to draw.
func (g *Game) StackRemaining() int {
	if g.stack == nil {
		return 0
	}
	return g.stack.Remaining()
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// EndReason says why the game ended, or is empty while it is still going.
func (g *Game) EndReason() string {
	return g.endReason
}

func (g *Game) Turn() int {
	return g.turnnum
}

func (g *Game) PlayerOnTurn() int {
	return g.onturn
}

func (g *Game) NickOnTurn() string {
	return g.players[g.onturn].Nickname
}

func (g *Game) NumPlayers() int {
	return len(g.players)
}

func (g *Game) Nickname(playerIdx int) string {
	return g.players[playerIdx].Nickname
}

func (g *Game) Nicknames() []string {
	return lo.Map(g.players, func(p *playerState, _ int) string { return p.Nickname })
}

func (g *Game) PointsFor(playerIdx int) int {
	return g.players[playerIdx].points
}

// HandFor returns a copy of a player's hand.
func (g *Game) HandFor(playerIdx int) []tiles.Token {
	return g.players[playerIdx].handCopy()
}

// History returns the events so far, oldest first.
func (g *Game) History() []*Event {
	return append([]*Event(nil), g.history...)
}
