// Package automatic plays games with no one at the keyboard: tokens are
// drawn and dropped at random until the stack runs out or nothing fits,
// which is how board patterns are generated and how long a random game can
// last is measured.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/tiles"
)

const (
	DefaultPickAttempts = 20
	// SearchPickAttempts is what a pattern search uses by default; it
	// tries harder than a plain run.
	SearchPickAttempts = 30
)

var (
	ErrBadPickAttempts = errors.New("pick attempts must be at least 1")
	errNoDroppable     = errors.New("token fits nowhere on the frontier")
)

// Result is the outcome of one automatic game.
type Result struct {
	Order int
	Seed  uint64
	// Placements counts successful drops after the first token.
	Placements int
	// Left is how many tokens never made it onto the board.
	Left  int
	Board *board.GameBoard
	Hash  uint64
}

// CSV renders the result the way it goes into the run log.
func (r *Result) CSV(gameIdx int) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%016x\n", gameIdx, r.Order, r.Seed, r.Placements, r.Left, r.Hash)
}

// CSVHeader is the first line of a run log.
const CSVHeader = "game,order,seed,placements,left,hash\n"

// TryGame bootstraps a board from a fresh stack, then keeps drawing tokens
// and dropping each one on a random cell of the frontier where it fits. A
// token that fits nowhere goes back into the stack at a random position and
// another is drawn, up to pickAttempts times; when every attempt misses, the
// game stops.
func TryGame(ctx context.Context, order, pickAttempts int, rng *frand.RNG) (*Result, error) {
	if pickAttempts < 1 {
		return nil, ErrBadPickAttempts
	}
	b, err := board.MakeBoard(order)
	if err != nil {
		return nil, err
	}
	stack := tiles.NewStack(b.Catalog(), rng)
	t0, err := stack.Pick()
	if err != nil {
		return nil, err
	}
	if err := b.DropFirstToken(t0); err != nil {
		return nil, err
	}

	placements := 0
	for !stack.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := stack.Pick()
		if err != nil {
			return nil, err
		}
		var droppable []board.Coord
		err = retry.Do(
			func() error {
				droppable = b.DroppableLocations(t)
				if len(droppable) > 0 {
					return nil
				}
				if err := stack.RandomInsert(t); err != nil {
					return retry.Unrecoverable(err)
				}
				next, err := stack.Pick()
				if err != nil {
					return retry.Unrecoverable(err)
				}
				t = next
				return errNoDroppable
			},
			retry.Attempts(uint(pickAttempts)),
			retry.Delay(0),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.Context(ctx),
		)
		if errors.Is(err, errNoDroppable) {
			log.Debug().Int("placements", placements).Int("stack", stack.Remaining()).
				Msg("no-proper-token")
			break
		}
		if err != nil {
			return nil, err
		}
		c := droppable[rng.Intn(len(droppable))]
		if !b.AddSingleToken(t, c.Row, c.Col) {
			return nil, fmt.Errorf("%v at %v was droppable but got rejected", t, c)
		}
		placements++
	}

	return &Result{
		Order:      order,
		Placements: placements,
		Left:       tiles.Copies*b.Catalog().Size() - b.Len(),
		Board:      b,
		Hash:       b.Hash(),
	}, nil
}

// Runner plays batches of automatic games for one order.
type Runner struct {
	order        int
	pickAttempts int
	seed         uint64
	seeds        []uint64
	logchan      chan string
}

// NewRunner sets up a runner. A zero seed is replaced by a random one.
// When logchan is not nil, every finished game is sent to it as a CSV line;
// the caller must keep draining it.
func NewRunner(order, pickAttempts int, seed uint64, logchan chan string) *Runner {
	if seed == 0 {
		seed = tiles.RandomSeed()
	}
	return &Runner{
		order:        order,
		pickAttempts: pickAttempts,
		seed:         seed,
		logchan:      logchan,
	}
}

// UseSeeds makes the runner play exactly these seeds, in order, instead of
// deriving them from its base seed.
func (r *Runner) UseSeeds(seeds []uint64) {
	r.seeds = seeds
}

func (r *Runner) Seed() uint64 {
	return r.seed
}

// gameSeeds returns the seed of each of n games.
func (r *Runner) gameSeeds(n int) ([]uint64, error) {
	if r.seeds != nil {
		if len(r.seeds) < n {
			return nil, fmt.Errorf("%d seeds for %d games", len(r.seeds), n)
		}
		return r.seeds[:n], nil
	}
	rng := tiles.NewRNG(r.seed)
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = rng.Uint64n(1<<63-1) + 1
	}
	return seeds, nil
}

// playOne runs a single seeded game.
func (r *Runner) playOne(ctx context.Context, seed uint64) (*Result, error) {
	res, err := TryGame(ctx, r.order, r.pickAttempts, tiles.NewRNG(seed))
	if err != nil {
		return nil, err
	}
	res.Seed = seed
	return res, nil
}

// SearchResult is what a pattern search ended with.
type SearchResult struct {
	Best     *Result
	Attempts int
	Reached  bool
	Elapsed  time.Duration
}
