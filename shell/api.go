package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/nutok/nutok/automatic"
	"github.com/nutok/nutok/board"
	"github.com/nutok/nutok/config"
	"github.com/nutok/nutok/game"
	"github.com/nutok/nutok/stats"
	"github.com/nutok/nutok/tiles"
)

const (
	histogramBins  = 10
	histogramWidth = 50
	defaultListed  = 10
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Uint64Default(key string, defaultU uint64) (uint64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultU, nil
	}
	return strconv.ParseUint(v[0], 10, 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

// intArgs converts every argument to an int, naming the first bad one.
func intArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	order := sc.config.GetInt(config.ConfigOrder)
	names := cmd.args
	if len(names) > 0 && isNumber(names[0]) {
		order, _ = strconv.Atoi(names[0])
		names = names[1:]
	}
	if len(names) == 0 {
		n := sc.config.GetInt(config.ConfigPlayers)
		names = make([]string, n)
		for k := range names {
			names[k] = fmt.Sprintf("Player %d", k)
		}
	}
	if sc.game != nil && sc.game.Playing() == game.Playing {
		log.Info().Str("id", sc.game.Uid()).Msg("abandoning-game")
	}
	g, err := game.NewGame(order, names, sc.config.GetUint64(config.ConfigSeed))
	if err != nil {
		return nil, err
	}
	g.StartGame()
	sc.game = g
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

// afterTurn reports a finished turn, followed by the next position or, if
// the turn ended the game, by its wrap-up.
func (sc *ShellController) afterTurn(report string) *Response {
	if sc.game.Playing() == game.GameOver {
		return msg(report + "\n\n" + sc.wrapUp())
	}
	return msg(report + "\n\n" + sc.game.ToDisplayText())
}

// wrapUp writes the history of a finished game and stores it.
func (sc *ShellController) wrapUp() string {
	var sb strings.Builder
	if sc.game.EndReason() == "stack-empty" {
		sb.WriteString("Stack is now empty, the game ends now.\n")
	}
	sb.WriteString(sc.game.ToDisplayText())

	path, err := sc.game.WriteHistory(sc.config.GetString(config.ConfigHistoryPath))
	if err != nil {
		log.Err(err).Msg("error-writing-history")
		fmt.Fprintf(&sb, "\n\nCould not write the history: %v", err)
	} else {
		fmt.Fprintf(&sb, "\n\nHistory written to %s", path)
	}

	s, err := sc.openStore()
	if err == nil {
		err = s.SaveGame(context.Background(), sc.game)
	}
	if err != nil {
		log.Err(err).Msg("error-storing-game")
	}
	return sb.String()
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: play <index> <row> <col>")
	}
	nums, err := intArgs(cmd.args)
	if err != nil {
		return nil, err
	}
	nick := sc.game.NickOnTurn()
	evt, err := sc.game.PlayToken(nums[0]-1, nums[1], nums[2])
	if err != nil {
		return nil, err
	}
	return sc.afterTurn(fmt.Sprintf("%s won %d point(s) (total: %d).", nick, evt.Score, evt.Cumulative)), nil
}

func (sc *ShellController) multi(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 5 {
		return nil, errors.New("usage: multi <i,j,...> <row1> <col1> <row2> <col2>")
	}
	idxs, err := intArgs(strings.Split(cmd.args[0], ","))
	if err != nil {
		return nil, err
	}
	coords, err := intArgs(cmd.args[1:])
	if err != nil {
		return nil, err
	}
	idxs = lo.Map(idxs, func(i int, _ int) int { return i - 1 })
	nick := sc.game.NickOnTurn()
	evt, err := sc.game.PlayTokens(idxs,
		board.Coord{Row: coords[0], Col: coords[1]},
		board.Coord{Row: coords[2], Col: coords[3]})
	if err != nil {
		return nil, err
	}
	return sc.afterTurn(fmt.Sprintf("%s won %d point(s) with %s (total: %d).",
		nick, evt.Score, tiles.TokensString(evt.Tokens), evt.Cumulative)), nil
}

func (sc *ShellController) exchange(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: exchange <index>")
	}
	idx, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	nick := sc.game.NickOnTurn()
	evt, err := sc.game.Exchange(idx - 1)
	if err != nil {
		return nil, err
	}
	return sc.afterTurn(fmt.Sprintf("%s exchanged %s.", nick, tiles.TokensString(evt.Tokens))), nil
}

func coordsText(cs []board.Coord) string {
	if len(cs) == 0 {
		return "(none)"
	}
	return strings.Join(lo.Map(cs, func(c board.Coord, _ int) string { return c.String() }), " ")
}

func (sc *ShellController) frontier(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	b := sc.game.Board()
	if len(cmd.args) == 0 {
		return msg(coordsText(b.AllNearestEmptyLocations())), nil
	}
	idx, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	hand := sc.game.HandFor(sc.game.PlayerOnTurn())
	if idx < 1 || idx > len(hand) {
		return nil, fmt.Errorf("%d: %w", idx, game.ErrInvalidHandIndex)
	}
	t := hand[idx-1]
	return msg(t.String() + " fits at " + coordsText(b.DroppableLocations(t))), nil
}

func (sc *ShellController) score(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: score <row> <col>")
	}
	nums, err := intArgs(cmd.args)
	if err != nil {
		return nil, err
	}
	pts, err := sc.game.Board().ScoreCount(nums[0], nums[1])
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s is worth %d point(s)", board.Coord{Row: nums[0], Col: nums[1]}, pts)), nil
}

func (sc *ShellController) end(cmd *shellcmd) (*Response, error) {
	if err := sc.requirePlaying(); err != nil {
		return nil, err
	}
	if _, err := sc.game.Quit(); err != nil {
		return nil, err
	}
	return msg(sc.wrapUp()), nil
}

// leave ends the game in progress, if any, before the shell exits.
func (sc *ShellController) leave() *Response {
	if sc.game == nil || sc.game.Playing() != game.Playing {
		return msg("See you soon!")
	}
	if _, err := sc.game.Quit(); err != nil {
		log.Err(err).Msg("error-quitting-game")
		return msg("See you soon!")
	}
	return msg(sc.wrapUp() + "\n\nSee you soon!")
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	evts := sc.game.History()
	if len(evts) == 0 {
		return msg("No moves yet."), nil
	}
	lines := make([]string, len(evts))
	for i, e := range evts {
		lines[i] = fmt.Sprintf("%3d. %s: %s", i+1, sc.game.Nickname(e.Player), e.String())
	}
	return msg(strings.Join(lines, "\n")), nil
}

type playerJSON struct {
	Name   string   `json:"name"`
	Points int      `json:"points"`
	Hand   []string `json:"hand"`
}

type stateJSON struct {
	ID       string       `json:"id"`
	Order    int          `json:"order"`
	Seed     string       `json:"seed"`
	State    string       `json:"state"`
	Reason   string       `json:"reason,omitempty"`
	Turn     int          `json:"turn"`
	OnTurn   int          `json:"on_turn"`
	Stack    int          `json:"stack"`
	Placed   int          `json:"placed"`
	Players  []playerJSON `json:"players"`
	Frontier [][2]int     `json:"frontier"`
}

// stateJSON renders the current game as JSON. on_turn is 1-based.
func (sc *ShellController) stateJSON() ([]byte, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	g := sc.game
	st := stateJSON{
		ID:     g.Uid(),
		Order:  g.Order(),
		Seed:   strconv.FormatUint(g.Seed(), 10),
		State:  g.Playing().String(),
		Reason: g.EndReason(),
		Turn:   g.Turn(),
		OnTurn: g.PlayerOnTurn() + 1,
		Stack:  g.StackRemaining(),
		Placed: g.Board().Len(),
	}
	for p := 0; p < g.NumPlayers(); p++ {
		st.Players = append(st.Players, playerJSON{
			Name:   g.Nickname(p),
			Points: g.PointsFor(p),
			Hand:   lo.Map(g.HandFor(p), func(t tiles.Token, _ int) string { return t.String() }),
		})
	}
	st.Frontier = lo.Map(g.Board().AllNearestEmptyLocations(), func(c board.Coord, _ int) [2]int {
		return [2]int{c.Row, c.Col}
	})
	return json.Marshal(st)
}

func (sc *ShellController) state(cmd *shellcmd) (*Response, error) {
	data, err := sc.stateJSON()
	if err != nil {
		return nil, err
	}
	return msg(string(data)), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		s, err := sc.openStore()
		if err != nil {
			return nil, err
		}
		if err := s.SaveGame(context.Background(), sc.game); err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("saved game %s to %s", sc.game.Uid(),
			sc.config.GetString(config.ConfigDBPath))), nil
	}
	data, err := sc.game.Snapshot().Marshal()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cmd.args[0], data, 0o644); err != nil {
		return nil, err
	}
	return msg("saved game to " + cmd.args[0]), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file.yaml | game-id>")
	}
	var g *game.Game
	src := cmd.args[0]
	if data, err := os.ReadFile(src); err == nil {
		snap, err := game.ParseSnapshot(data)
		if err != nil {
			return nil, err
		}
		g, err = game.FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		s, err := sc.openStore()
		if err != nil {
			return nil, err
		}
		g, err = s.LoadGame(context.Background(), src)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	sc.game = g
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) games(cmd *shellcmd) (*Response, error) {
	n := defaultListed
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	s, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	recs, err := s.ListGames(context.Background(), n)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return msg("No stored games."), nil
	}
	var sb strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&sb, "%s  order %d  %-10s %3d turn(s)  %s\n",
			r.ID, r.Order, r.PlayState, r.Turns, r.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	attempts, err := cmd.options.IntDefault("attempts", sc.config.GetInt(config.ConfigPickAttempts))
	if err != nil {
		return nil, err
	}
	order, err := cmd.options.IntDefault("order", sc.config.GetInt(config.ConfigOrder))
	if err != nil {
		return nil, err
	}
	seed, err := cmd.options.Uint64Default("seed", sc.config.GetUint64(config.ConfigSeed))
	if err != nil {
		return nil, err
	}
	if _, err := tiles.NewCatalog(order); err != nil {
		return nil, err
	}
	ctx := context.Background()

	if _, ok := cmd.options["search"]; ok {
		target, err := cmd.options.Int("search")
		if err != nil {
			return nil, err
		}
		sr, err := automatic.NewRunner(order, attempts, seed, nil).Search(ctx, target, games)
		if err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("Searched %d game(s) in %v; target %d reached: %v.\nBest game: %d placements, %d left (seed %d)\n\n%s",
			sr.Attempts, sr.Elapsed.Round(time.Millisecond), target, sr.Reached,
			sr.Best.Placements, sr.Best.Left, sr.Best.Seed, sr.Best.Board.ToDisplayText())), nil
	}

	var logchan chan string
	var logDone chan struct{}
	if logPath := cmd.options.String("log"); logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if _, err := f.WriteString(automatic.CSVHeader); err != nil {
			return nil, err
		}
		logchan = make(chan string, 64)
		logDone = make(chan struct{})
		go func() {
			defer close(logDone)
			for line := range logchan {
				if _, err := f.WriteString(line); err != nil {
					log.Err(err).Msg("error-writing-log")
				}
			}
		}()
	}

	runner := automatic.NewRunner(order, attempts, seed, logchan)
	sm, err := runner.Run(ctx, games, threads)
	if logchan != nil {
		close(logchan)
		<-logDone
	}
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Played %d game(s) of order %d (seed %d)\n", len(sm.Results), order, sm.Seed)
	sb.WriteString("Placements: " + sm.Placements.String() + "\n\n")
	if err := stats.Histogram(&sb, sm.PlacementValues(), histogramBins, histogramWidth); err != nil {
		return nil, err
	}
	fmt.Fprintf(&sb, "\nBest game: %d placements, %d left (seed %d)\n\n%s",
		sm.Best.Placements, sm.Best.Left, sm.Best.Seed, sm.Best.Board.ToDisplayText())

	s, err := sc.openStore()
	if err == nil {
		var runID string
		runID, err = s.SaveRun(ctx, sm)
		if err == nil {
			fmt.Fprintf(&sb, "\n\nStored as run %s", runID)
		}
	}
	if err != nil {
		log.Err(err).Msg("error-storing-run")
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) top(cmd *shellcmd) (*Response, error) {
	n := defaultListed
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	order, err := cmd.options.IntDefault("order", sc.config.GetInt(config.ConfigOrder))
	if err != nil {
		return nil, err
	}
	s, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	recs, err := s.TopAutoplay(context.Background(), order, n)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return msg(fmt.Sprintf("No stored automatic games of order %d.", order)), nil
	}
	var sb strings.Builder
	for i, r := range recs {
		fmt.Fprintf(&sb, "%3d. %4d placements %4d left  seed %d  run %s game %d\n",
			i+1, r.Placements, r.Left, r.Seed, r.RunID, r.GameIdx)
	}
	sb.WriteString("\n" + recs[0].Board)
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	switch len(cmd.args) {
	case 0:
		var sb strings.Builder
		for _, k := range config.Keys() {
			fmt.Fprintf(&sb, "%-18s %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	case 1:
		if !lo.Contains(config.Keys(), cmd.args[0]) {
			return nil, fmt.Errorf("%s: %w", cmd.args[0], config.ErrUnknownKey)
		}
		return msg(fmt.Sprintf("%s = %v", cmd.args[0], sc.config.Get(cmd.args[0]))), nil
	}

	key := cmd.args[0]
	value := cmd.args[1]
	if err := sc.config.SetFromString(key, value); err != nil {
		return nil, err
	}

	// Save the configuration to file
	path, err := sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to %s", key, value, path)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
