package automatic

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

func TestTryGame(t *testing.T) {
	is := is.New(t)
	for _, order := range []int{2, 3, 4, 6} {
		res, err := TryGame(context.Background(), order, DefaultPickAttempts, tiles.NewRNG(uint64(order)))
		is.NoErr(err)
		is.Equal(res.Order, order)
		is.Equal(res.Board.Len(), res.Placements+1)
		is.Equal(res.Placements+1+res.Left, tiles.Copies*order*order)
		is.Equal(res.Hash, res.Board.Hash())

		// Every line on the board must still be consistent.
		cat := res.Board.Catalog()
		for _, p := range res.Board.Placements() {
			for _, dir := range []board.Direction{board.VerticalDirection, board.HorizontalDirection} {
				line, err := res.Board.WidestLine(p.Row, p.Col, dir)
				is.NoErr(err)
				is.True(cat.LineConsistent(line))
			}
		}
	}
}

func TestTryGameDeterministic(t *testing.T) {
	is := is.New(t)
	a, err := TryGame(context.Background(), 5, DefaultPickAttempts, tiles.NewRNG(77))
	is.NoErr(err)
	b, err := TryGame(context.Background(), 5, DefaultPickAttempts, tiles.NewRNG(77))
	is.NoErr(err)
	is.Equal(a.Placements, b.Placements)
	is.Equal(a.Hash, b.Hash)
	is.True(a.Board.Equals(b.Board))
}

func TestTryGameOrderOne(t *testing.T) {
	is := is.New(t)
	// Three copies of a single token: none can ever sit next to another.
	res, err := TryGame(context.Background(), 1, 5, tiles.NewRNG(3))
	is.NoErr(err)
	is.Equal(res.Placements, 0)
	is.Equal(res.Left, 2)
}

func TestTryGameErrors(t *testing.T) {
	is := is.New(t)
	_, err := TryGame(context.Background(), 3, 0, tiles.NewRNG(1))
	is.True(errors.Is(err, ErrBadPickAttempts))

	_, err = TryGame(context.Background(), 0, 1, tiles.NewRNG(1))
	is.True(errors.Is(err, tiles.ErrInvalidOrder))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = TryGame(ctx, 3, 1, tiles.NewRNG(1))
	is.True(errors.Is(err, context.Canceled))
}

func TestResultCSV(t *testing.T) {
	is := is.New(t)
	r := &Result{Order: 3, Seed: 9, Placements: 12, Left: 14, Hash: 0xabc}
	is.Equal(r.CSV(4), "4,3,9,12,14,0000000000000abc\n")
}
