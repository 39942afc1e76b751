package automatic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func runAndCollect(t *testing.T, r *Runner, logchan chan string, games, threads int) (*RunSummary, []string) {
	t.Helper()
	var lines []string
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range logchan {
			lines = append(lines, msg)
		}
	}()
	sm, err := r.Run(context.Background(), games, threads)
	close(logchan)
	wg.Wait()
	if err != nil {
		t.Fatal(err)
	}
	return sm, lines
}

func TestRun(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 10)
	r := NewRunner(3, DefaultPickAttempts, 1234, logchan)

	sm, lines := runAndCollect(t, r, logchan, 20, 4)
	is.Equal(len(sm.Results), 20)
	is.Equal(len(lines), 20)
	is.Equal(sm.Placements.N, 20)
	is.Equal(float64(sm.Best.Placements), sm.Placements.Max)
	is.Equal(sm.Seed, uint64(1234))
	is.Equal(AutoplayCounter.Value(), int64(20))
	is.Equal(IsPlaying.Value(), int64(0))
	for _, l := range lines {
		is.Equal(strings.Count(l, ","), strings.Count(CSVHeader, ","))
	}
}

func TestRunReproducible(t *testing.T) {
	is := is.New(t)
	a, err := NewRunner(4, DefaultPickAttempts, 99, nil).Run(context.Background(), 12, 1)
	is.NoErr(err)
	b, err := NewRunner(4, DefaultPickAttempts, 99, nil).Run(context.Background(), 12, 6)
	is.NoErr(err)
	is.Equal(a.PlacementValues(), b.PlacementValues())
	for i := range a.Results {
		is.Equal(a.Results[i].Hash, b.Results[i].Hash)
	}
}

func TestRunErrors(t *testing.T) {
	is := is.New(t)
	r := NewRunner(3, DefaultPickAttempts, 5, nil)
	_, err := r.Run(context.Background(), 0, 1)
	is.True(errors.Is(err, ErrBadBatch))
	_, err = r.Run(context.Background(), 1, 0)
	is.True(errors.Is(err, ErrBadBatch))

	r.UseSeeds([]uint64{1, 2})
	_, err = r.Run(context.Background(), 3, 1)
	is.True(err != nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(3, DefaultPickAttempts, 5, nil).Run(ctx, 4, 2)
	is.True(errors.Is(err, context.Canceled))
}

func TestRunWithSeeds(t *testing.T) {
	is := is.New(t)
	r := NewRunner(3, DefaultPickAttempts, 5, nil)
	r.UseSeeds([]uint64{11, 22, 33})
	sm, err := r.Run(context.Background(), 3, 2)
	is.NoErr(err)
	for i, seed := range []uint64{11, 22, 33} {
		is.Equal(sm.Results[i].Seed, seed)
	}
}

func TestSearch(t *testing.T) {
	is := is.New(t)
	r := NewRunner(3, SearchPickAttempts, 8, nil)

	sr, err := r.Search(context.Background(), -1, 10)
	is.NoErr(err)
	is.True(sr.Reached)
	is.Equal(sr.Attempts, 1)

	sr, err = r.Search(context.Background(), 1000, 3)
	is.NoErr(err)
	is.True(!sr.Reached)
	is.Equal(sr.Attempts, 3)
	is.True(sr.Best != nil)
}

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	seeds := GenerateSeeds(5)
	is.Equal(len(seeds), 5)
	is.NoErr(SaveSeeds(seeds, path))

	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)

	is.NoErr(os.WriteFile(path, []byte("# x\n12\n\nnope\n"), 0o644))
	_, err = LoadSeeds(path)
	is.True(err != nil)
}

func TestAnalyzeLogFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "run.csv")
	contents := CSVHeader +
		"1,3,11,5,21,0000000000000001\n" +
		"2,3,22,9,17,0000000000000002\n" +
		"3,3,33,7,19,0000000000000003\n"
	is.NoErr(os.WriteFile(path, []byte(contents), 0o644))

	out, err := AnalyzeLogFile(path)
	is.NoErr(err)
	assert.Contains(t, out, "Games played: 3\n")
	assert.Contains(t, out, "Placements Mean: 7.000000  Stdev: 2.000000")
	assert.Contains(t, out, "Best: game 2 (seed 22) with 9 placements")

	is.NoErr(os.WriteFile(path, []byte(CSVHeader), 0o644))
	_, err = AnalyzeLogFile(path)
	is.True(err != nil)
}
