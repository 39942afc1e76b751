package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nutok/nutok/automatic"
	"github.com/nutok/nutok/config"
	"github.com/nutok/nutok/stats"
	"github.com/nutok/nutok/store"
)

const (
	histogramBins  = 20
	histogramWidth = 60
)

func usage(w io.Writer) {
	io.WriteString(w, "usage: autoplay [flags] <command>\n\n")
	io.WriteString(w, "run [log.csv] [seeds.txt] - play a batch of games, optionally logging each one\n")
	io.WriteString(w, "    and playing the seeds listed in seeds.txt\n")
	io.WriteString(w, "search <target> - play games until one gets more than target placements\n")
	io.WriteString(w, "analyze <log.csv> - summarize a run log\n")
	io.WriteString(w, "seeds <n> <seeds.txt> - write n random seeds to a file\n")
	io.WriteString(w, "top [n] - list the best stored games of the configured order\n")
}

func setupLogger(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
}

func main() {
	cfg := config.DefaultConfig()
	args, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	setupLogger(cfg.GetBool(config.ConfigDebug))

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	if len(args) == 0 {
		args = []string{"run"}
	}
	switch args[0] {
	case "run":
		err = runBatch(ctx, cfg, args[1:])
	case "search":
		err = search(ctx, cfg, args[1:])
	case "analyze":
		if len(args) < 2 {
			err = errors.New("analyze needs a log file")
			break
		}
		var out string
		out, err = automatic.AnalyzeLogFile(args[1])
		if err == nil {
			fmt.Println(out)
		}
	case "seeds":
		err = writeSeeds(args[1:])
	case "top":
		err = top(ctx, cfg, args[1:])
	case "help":
		usage(os.Stdout)
	default:
		usage(os.Stderr)
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		log.Error().Err(err).Msg("autoplay-failed")
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func runBatch(ctx context.Context, cfg *config.Config, args []string) error {
	var logchan chan string
	logDone := make(chan struct{})
	if len(args) > 0 && args[0] != "" {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := f.WriteString(automatic.CSVHeader); err != nil {
			return err
		}
		logchan = make(chan string, 256)
		go func() {
			defer close(logDone)
			for line := range logchan {
				if _, err := f.WriteString(line); err != nil {
					log.Err(err).Msg("error-writing-log")
				}
			}
		}()
	} else {
		close(logDone)
	}

	runner := automatic.NewRunner(cfg.GetInt(config.ConfigOrder), cfg.GetInt(config.ConfigPickAttempts),
		cfg.GetUint64(config.ConfigSeed), logchan)
	games := cfg.GetInt(config.ConfigAutoplayGames)
	if len(args) > 1 {
		seeds, err := automatic.LoadSeeds(args[1])
		if err != nil {
			return err
		}
		runner.UseSeeds(seeds)
		games = min(games, len(seeds))
	}

	log.Info().Int("games", games).Int("order", cfg.GetInt(config.ConfigOrder)).
		Uint64("seed", runner.Seed()).Msg("autoplay-starting")
	start := time.Now()
	sm, err := runner.Run(ctx, games, cfg.GetInt(config.ConfigAutoplayThreads))
	if logchan != nil {
		close(logchan)
	}
	<-logDone
	if err != nil {
		return err
	}

	fmt.Printf("Played %d game(s) of order %d in %v (seed %d)\n",
		len(sm.Results), cfg.GetInt(config.ConfigOrder), time.Since(start).Round(time.Millisecond), sm.Seed)
	fmt.Println("Placements:", sm.Placements.String())
	fmt.Println()
	if err := stats.Histogram(os.Stdout, sm.PlacementValues(), histogramBins, histogramWidth); err != nil {
		return err
	}
	fmt.Printf("\nBest game: %d placements, %d left (seed %d)\n\n%s\n",
		sm.Best.Placements, sm.Best.Left, sm.Best.Seed, sm.Best.Board.ToDisplayText())

	s, err := store.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		return err
	}
	defer s.Close()
	runID, err := s.SaveRun(ctx, sm)
	if err != nil {
		return err
	}
	fmt.Println("Stored as run", runID)
	return nil
}

func search(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("search needs a target")
	}
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	runner := automatic.NewRunner(cfg.GetInt(config.ConfigOrder), cfg.GetInt(config.ConfigPickAttempts),
		cfg.GetUint64(config.ConfigSeed), nil)
	sr, err := runner.Search(ctx, target, cfg.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return err
	}
	fmt.Printf("Searched %d game(s) in %v; target %d reached: %v\n",
		sr.Attempts, sr.Elapsed.Round(time.Millisecond), target, sr.Reached)
	fmt.Printf("Best game: %d placements, %d left (seed %d)\n\n%s\n",
		sr.Best.Placements, sr.Best.Left, sr.Best.Seed, sr.Best.Board.ToDisplayText())

	s, err := store.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveAutoplay(ctx, "search-"+strconv.FormatUint(runner.Seed(), 10), sr.Attempts, sr.Best)
}

func writeSeeds(args []string) error {
	if len(args) < 2 {
		return errors.New("seeds needs a count and a file")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	if err := automatic.SaveSeeds(automatic.GenerateSeeds(n), args[1]); err != nil {
		return err
	}
	log.Info().Int("n", n).Str("path", args[1]).Msg("seeds-written")
	return nil
}

func top(ctx context.Context, cfg *config.Config, args []string) error {
	n := 10
	if len(args) > 0 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	}
	s, err := store.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		return err
	}
	defer s.Close()
	recs, err := s.TopAutoplay(ctx, cfg.GetInt(config.ConfigOrder), n)
	if err != nil {
		return err
	}
	for i, r := range recs {
		fmt.Printf("%3d. %4d placements %4d left  seed %d  run %s game %d\n",
			i+1, r.Placements, r.Left, r.Seed, r.RunID, r.GameIdx)
	}
	if len(recs) > 0 {
		fmt.Println()
		fmt.Println(recs[0].Board)
	}
	return nil
}
