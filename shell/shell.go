package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/nutok/nutok/config"
	"github.com/nutok/nutok/game"
	"github.com/nutok/nutok/store"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with new")
	errGameOver          = errors.New("the game is over; start another one with new")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string

	game  *game.Game
	store *store.Store

	done bool
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func newShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	return &ShellController{
		out:        os.Stdout,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
	}
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	prompt := "\033[31mnutok>\033[0m "
	sc := newShellController(cfg, execPath, gitVersion)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), "nutok_readline.tmp"),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// extractFields splits a command line into the command, its positional
// arguments and its -key value options. Negative numbers are arguments.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}

	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) executeCommand(cmd *shellcmd) (*Response, error) {
	if isNumber(cmd.cmd) {
		// "<idx> <row> <col>" is short for play.
		return sc.play(&shellcmd{
			cmd:     "play",
			args:    append([]string{cmd.cmd}, cmd.args...),
			options: cmd.options,
		})
	}
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "s", "show":
		return sc.show(cmd)
	case "play":
		return sc.play(cmd)
	case "multi":
		return sc.multi(cmd)
	case "exchange", "x":
		return sc.exchange(cmd)
	case "frontier":
		return sc.frontier(cmd)
	case "score":
		return sc.score(cmd)
	case "end":
		return sc.end(cmd)
	case "history":
		return sc.history(cmd)
	case "state":
		return sc.state(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "games":
		return sc.games(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "top":
		return sc.top(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("command %v not found", strconv.Quote(cmd.cmd))
		return nil, fmt.Errorf("command %v not found; type help for a list", cmd.cmd)
	}
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		resp := sc.leave()
		sc.done = true
		sig <- syscall.SIGINT
		return resp, nil
	default:
		return sc.executeCommand(cmd)
	}
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(strings.TrimSpace(line), sig)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
		if sc.done {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup releases what the shell holds open.
func (sc *ShellController) Cleanup() {
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("error-closing-store")
		}
		sc.store = nil
	}
}

func (sc *ShellController) openStore() (*store.Store, error) {
	if sc.store != nil {
		return sc.store, nil
	}
	s, err := store.Open(sc.config.GetString(config.ConfigDBPath))
	if err != nil {
		return nil, err
	}
	sc.store = s
	return s, nil
}

func (sc *ShellController) requireGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) requirePlaying() error {
	if err := sc.requireGame(); err != nil {
		return err
	}
	if sc.game.Playing() == game.GameOver {
		return errGameOver
	}
	return nil
}
