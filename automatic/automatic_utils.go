package automatic

// Batches of automatic games, for pattern generation and statistics.

import (
	"context"
	"errors"
	"expvar"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nutok/nutok/stats"
)

var (
	AutoplayCounter *expvar.Int
	IsPlaying       *expvar.Int

	ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")
	ErrBadBatch       = errors.New("games and threads must be at least 1")
)

func init() {
	AutoplayCounter = expvar.NewInt("autoplayCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// RunSummary aggregates a batch of games.
type RunSummary struct {
	Seed       uint64
	Results    []*Result
	Placements stats.Summary
	// Best has the most placements; ties go to the earliest game.
	Best *Result
}

// PlacementValues lists placements per game, in game order.
func (s *RunSummary) PlacementValues() []float64 {
	vals := make([]float64, len(s.Results))
	for i, r := range s.Results {
		vals[i] = float64(r.Placements)
	}
	return vals
}

// Run plays games automatic games on at most threads goroutines. Game i
// always gets the same seed for the same runner seed, so a batch can be
// replayed exactly whatever the thread count.
func (r *Runner) Run(ctx context.Context, games, threads int) (*RunSummary, error) {
	if games < 1 || threads < 1 {
		return nil, ErrBadBatch
	}
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	seeds, err := r.gameSeeds(games)
	if err != nil {
		return nil, err
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	log.Debug().Msgf("Starting %v games, %v threads", games, threads)
	AutoplayCounter.Set(0)
	results := make([]*Result, games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < games; i++ {
		if gctx.Err() != nil {
			log.Info().Msg("Got stop signal, exiting soon...")
			break
		}
		g.Go(func() error {
			res, err := r.playOne(gctx, seeds[i])
			if err != nil {
				return err
			}
			results[i] = res
			AutoplayCounter.Add(1)
			if r.logchan != nil {
				r.logchan <- res.CSV(i + 1)
			}
			return nil
		})
		if (i+1)%1000 == 0 {
			log.Info().Msgf("Queued %v jobs", i+1)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info().Int("games", games).Msg("all-games-finished")

	sm := &RunSummary{Seed: r.seed, Results: results}
	for _, res := range results {
		if sm.Best == nil || res.Placements > sm.Best.Placements {
			sm.Best = res
		}
	}
	sm.Placements = stats.Summarize(sm.PlacementValues(), stats.DefaultConfidence)
	return sm, nil
}

// Search plays one game after another until one gets strictly more than
// target placements, or maxGames games have been played. Every new best is
// logged with its board.
func (r *Runner) Search(ctx context.Context, target, maxGames int) (*SearchResult, error) {
	if maxGames < 1 {
		return nil, ErrBadBatch
	}
	seeds, err := r.gameSeeds(maxGames)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	running := &stats.Statistic{}
	sr := &SearchResult{}
	for i, seed := range seeds {
		res, err := r.playOne(ctx, seed)
		if err != nil {
			return nil, err
		}
		sr.Attempts = i + 1
		running.Push(float64(res.Placements))
		if sr.Best == nil || res.Placements > sr.Best.Placements {
			sr.Best = res
			log.Info().Int("placements", res.Placements).Int("attempt", sr.Attempts).
				Float64("mean", running.Mean()).Msg("best-so-far")
			log.Debug().Msg("\n" + res.Board.String())
		}
		if res.Placements > target {
			sr.Reached = true
			break
		}
	}
	sr.Elapsed = time.Since(start)
	log.Info().Int("attempts", sr.Attempts).Bool("reached", sr.Reached).
		Int("best", sr.Best.Placements).Float64("mean", running.Mean()).
		Dur("elapsed", sr.Elapsed).Msg("search-done")
	return sr, nil
}
