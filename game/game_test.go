package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

var (
	sp = tiles.NewToken(tiles.Square, tiles.Purple)
	dp = tiles.NewToken(tiles.Diamond, tiles.Purple)
	cp = tiles.NewToken(tiles.Circle, tiles.Purple)
	sb = tiles.NewToken(tiles.Square, tiles.Blue)
	db = tiles.NewToken(tiles.Diamond, tiles.Blue)
)

func newStartedGame(t *testing.T, order int, seed uint64) *Game {
	t.Helper()
	g, err := NewGame(order, []string{"alice", "bob"}, seed)
	if err != nil {
		t.Fatal(err)
	}
	g.StartGame()
	return g
}

// firstLegalMove finds some single drop for the player on turn.
func firstLegalMove(g *Game) (int, board.Coord, bool) {
	for idx, tok := range g.HandFor(g.PlayerOnTurn()) {
		if locs := g.Board().DroppableLocations(tok); len(locs) > 0 {
			return idx, locs[0], true
		}
	}
	return 0, board.Coord{}, false
}

func tokensInPlay(g *Game) int {
	n := g.StackRemaining() + g.Board().Len()
	for i := 0; i < g.NumPlayers(); i++ {
		n += len(g.HandFor(i))
	}
	return n
}

// playOut drives the game until it ends, or for at most maxTurns turns.
func playOut(t *testing.T, g *Game, maxTurns int) {
	t.Helper()
	is := is.New(t)
	total := tokensInPlay(g)
	for g.Playing() == Playing && g.Turn() < maxTurns {
		if idx, c, ok := firstLegalMove(g); ok {
			_, err := g.PlayToken(idx, c.Row, c.Col)
			is.NoErr(err)
		} else if _, err := g.Exchange(0); errors.Is(err, ErrStackEmpty) {
			_, err = g.Quit()
			is.NoErr(err)
		} else {
			is.NoErr(err)
		}
		is.Equal(tokensInPlay(g), total)
	}
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	_, err := NewGame(3, nil, 1)
	is.True(errors.Is(err, ErrNoPlayers))

	_, err = NewGame(9, []string{"alice"}, 1)
	is.True(errors.Is(err, tiles.ErrInvalidOrder))

	g, err := NewGame(3, []string{"alice"}, 0)
	is.NoErr(err)
	is.True(g.Seed() != 0)
	is.Equal(g.Playing(), NotStarted)

	_, err = g.PlayToken(0, 1, 0)
	is.True(errors.Is(err, ErrNotStarted))
}

func TestStartGame(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 7)

	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), 0)
	is.Equal(g.Board().Len(), 1)
	first, err := g.Board().GetToken(0, 0)
	is.NoErr(err)
	is.Equal(first, g.FirstToken())

	for i := 0; i < g.NumPlayers(); i++ {
		is.Equal(len(g.HandFor(i)), 3)
	}
	is.Equal(g.StackRemaining(), 3*9-1-2*3)
}

func TestSameSeedSameDeal(t *testing.T) {
	is := is.New(t)
	a := newStartedGame(t, 4, 12345)
	b := newStartedGame(t, 4, 12345)
	is.Equal(a.FirstToken(), b.FirstToken())
	is.Equal(a.HandFor(0), b.HandFor(0))
	is.Equal(a.HandFor(1), b.HandFor(1))
}

func TestPlayToken(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 99)

	idx, c, ok := firstLegalMove(g)
	if !ok {
		t.Skip("no legal opening for this seed")
	}
	tok := g.HandFor(0)[idx]
	evt, err := g.PlayToken(idx, c.Row, c.Col)
	is.NoErr(err)

	is.Equal(evt.Kind, EventPlay)
	is.Equal(evt.Tokens, []tiles.Token{tok})
	want, err := g.Board().ScoreCount(c.Row, c.Col)
	is.NoErr(err)
	is.Equal(evt.Score, want)
	is.Equal(g.PointsFor(0), want)
	is.Equal(evt.Cumulative, want)

	is.Equal(len(g.HandFor(0)), 3)
	is.Equal(g.PlayerOnTurn(), 1)
	is.Equal(g.Turn(), 1)
	is.Equal(len(g.History()), 1)
}

func TestPlayTokenRejected(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 99)
	hand := g.HandFor(0)

	_, err := g.PlayToken(3, 1, 0)
	is.True(errors.Is(err, ErrInvalidHandIndex))
	_, err = g.PlayToken(-1, 1, 0)
	is.True(errors.Is(err, ErrInvalidHandIndex))

	_, err = g.PlayToken(0, 10, 10)
	is.True(errors.Is(err, ErrIllegalPlacement))
	_, err = g.PlayToken(0, 0, 0)
	is.True(errors.Is(err, ErrIllegalPlacement))

	_, err = g.PlayTokens([]int{1, 1}, board.Coord{Row: 1}, board.Coord{Row: 2})
	is.True(errors.Is(err, ErrDuplicateHandIndex))

	_, err = g.PlayTokens([]int{0, 1}, board.Coord{Row: 1}, board.Coord{Row: 2, Col: 1})
	is.True(errors.Is(err, board.ErrNotCollinear))

	is.Equal(g.HandFor(0), hand)
	is.Equal(g.PlayerOnTurn(), 0)
	is.Equal(len(g.History()), 0)
	is.Equal(g.Board().Len(), 1)
}

func TestPlayTokens(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 5)
	g.board.Clear()
	is.NoErr(g.board.DropFirstToken(sp))
	g.players[0].hand = []tiles.Token{dp, sb, cp}

	evt, err := g.PlayTokens([]int{0, 2}, board.Coord{Row: 1}, board.Coord{Row: 2})
	is.NoErr(err)
	// Vertical line of 3 completes the order: 6, plus 1 across per cell.
	is.Equal(evt.Score, 8)
	is.Equal(evt.Tokens, []tiles.Token{dp, cp})

	hand := g.HandFor(0)
	is.Equal(len(hand), 3)
	is.Equal(hand[0], sb)
}

func TestExchange(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 2024)
	before := g.HandFor(0)
	remaining := g.StackRemaining()

	evt, err := g.Exchange(1)
	is.NoErr(err)
	is.Equal(evt.Kind, EventExchange)
	is.Equal(evt.Tokens, []tiles.Token{before[1]})

	after := g.HandFor(0)
	is.Equal(len(after), 3)
	is.Equal(after[:2], []tiles.Token{before[0], before[2]})
	is.Equal(g.StackRemaining(), remaining)
	is.Equal(g.PlayerOnTurn(), 1)
	is.Equal(g.PointsFor(0), 0)

	_, err = g.Exchange(7)
	is.True(errors.Is(err, ErrInvalidHandIndex))
}

func TestExchangeEmptyStack(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 2024)
	g.stack.PickAtMost(g.StackRemaining())

	_, err := g.Exchange(0)
	is.True(errors.Is(err, ErrStackEmpty))
	is.Equal(g.PlayerOnTurn(), 0)
}

func TestQuit(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 1)
	evt, err := g.Quit()
	is.NoErr(err)
	is.Equal(evt.Kind, EventQuit)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.EndReason(), "quit")

	_, err = g.Quit()
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.PlayToken(0, 1, 0)
	is.True(errors.Is(err, ErrGameOver))
}

func TestPlayOut(t *testing.T) {
	is := is.New(t)
	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		g := newStartedGame(t, 2, seed)
		playOut(t, g, 500)
		if g.Playing() != GameOver {
			continue
		}
		is.True(g.EndReason() != "")
		sums := make([]int, g.NumPlayers())
		for _, e := range g.History() {
			sums[e.Player] += e.Score
		}
		for i := range sums {
			is.Equal(sums[i], g.PointsFor(i))
		}
	}
}

func TestStackEmptyEndsRound(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 8)
	g.stack.PickAtMost(g.StackRemaining())

	g.board.Clear()
	is.NoErr(g.board.DropFirstToken(sp))
	g.players[0].hand = []tiles.Token{dp}
	g.players[1].hand = []tiles.Token{db}

	_, err := g.PlayToken(0, 1, 0)
	is.NoErr(err)
	// Player 0 is out of tokens but the round is not over yet.
	is.Equal(g.Playing(), Playing)
	is.Equal(g.PlayerOnTurn(), 1)

	_, err = g.PlayToken(0, 1, 1)
	is.NoErr(err)
	is.Equal(g.Playing(), GameOver)
	is.Equal(g.EndReason(), "stack-empty")
}

func TestScoresText(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, []string{"alice", "bob", "carol"}, 1)
	is.NoErr(err)
	g.players[0].points = 3
	g.players[1].points = 7
	g.players[2].points = 3
	is.Equal(g.ScoresText(), "Scores:\n\t[1] bob: 7\n\t[2] alice: 3\n\t[3] carol: 3")
}

func TestHandText(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(3, []string{"alice"}, 1)
	is.NoErr(err)
	g.players[0].hand = []tiles.Token{sp, db}
	is.Equal(g.HandText(0),
		"Available tokens: ■p | ◆b | \n"+
			"         Indices: 1  | 2  | ")
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 11)
	txt := g.ToDisplayText()
	is.True(strings.HasPrefix(txt, g.Board().ToDisplayText()))
	is.True(strings.Contains(txt, "=> alice is playing."))
	is.True(strings.Contains(txt, "Available tokens: "))
	is.True(strings.HasSuffix(txt, g.ScoresText()))

	_, err := g.Quit()
	is.NoErr(err)
	is.True(strings.Contains(g.ToDisplayText(), "Game over (quit)."))
}

func TestWriteHistory(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 11)
	dir := filepath.Join(t.TempDir(), "history")

	path, err := g.WriteHistory(dir)
	is.NoErr(err)
	is.True(strings.HasPrefix(filepath.Base(path), "game_3_"))
	is.True(strings.HasSuffix(path, ".txt"))

	contents, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(contents), g.Board().ToDisplayText()+"\n\n"+g.ScoresText())
}

func TestSnapshotReplay(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 31337)
	playOut(t, g, 12)

	data, err := g.Snapshot().Marshal()
	is.NoErr(err)
	s, err := ParseSnapshot(data)
	is.NoErr(err)
	is.Equal(s.Seed, uint64(31337))

	g2, err := FromSnapshot(s)
	is.NoErr(err)
	is.Equal(g2.Uid(), g.Uid())
	is.True(g2.Board().Equals(g.Board()))
	is.Equal(g2.PlayerOnTurn(), g.PlayerOnTurn())
	is.Equal(g2.Playing(), g.Playing())
	is.Equal(g2.StackRemaining(), g.StackRemaining())
	for i := 0; i < g.NumPlayers(); i++ {
		is.Equal(g2.HandFor(i), g.HandFor(i))
		is.Equal(g2.PointsFor(i), g.PointsFor(i))
	}
	assert.Equal(t, g.ScoresText(), g2.ScoresText())
}

func TestSnapshotMismatch(t *testing.T) {
	is := is.New(t)
	g := newStartedGame(t, 3, 4242)
	playOut(t, g, 6)

	s := g.Snapshot()
	tampered := false
	for i := range s.Events {
		if s.Events[i].Kind == "play" {
			s.Events[i].Score++
			tampered = true
			break
		}
	}
	if !tampered {
		t.Skip("no play recorded for this seed")
	}
	_, err := FromSnapshot(s)
	is.True(errors.Is(err, ErrSnapshotMismatch))

	s.Seed = 0
	_, err = FromSnapshot(s)
	is.True(errors.Is(err, ErrSnapshotMismatch))
}
