package shell

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/nutok/nutok/config"
	"github.com/nutok/nutok/game"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
	// Files completes arguments with file names having one of these
	// extensions.
	Files []string
}

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-games", "-threads", "-attempts", "-order", "-seed", "-log", "-search"},
	},
	"top": {
		Options: []string{"-order"},
	},
	"setconfig": {
		Args: config.Keys(),
	},
	"help": {
		Args: helpTopics(),
	},
	"save":   {Files: []string{".yaml", ".yml"}},
	"load":   {Files: []string{".yaml", ".yml"}},
	"script": {Files: []string{".lua"}},
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "s", "show", "play", "multi", "exchange", "frontier",
	"score", "end", "history", "state", "save", "load", "games", "autoplay",
	"top", "setconfig", "script", "quit", "exit",
}

var orderValues = []string{"1", "2", "3", "4", "5", "6", "7", "8"}

// handIndexes lists the indexes of the hand of the player on turn.
func (c *ShellCompleter) handIndexes() []string {
	g := c.sc.game
	if g == nil || g.Playing() != game.Playing {
		return nil
	}
	n := len(g.HandFor(g.PlayerOnTurn()))
	idxs := make([]string, n)
	for i := range idxs {
		idxs[i] = strconv.Itoa(i + 1)
	}
	return idxs
}

// filesWithExt lists the entries of the directory part of prefix whose
// names end in one of exts. Directories are listed too, with a trailing
// slash.
func filesWithExt(prefix string, exts []string) []string {
	dir := filepath.Dir(prefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sep := string(filepath.Separator)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if dir != "." || strings.HasPrefix(prefix, "."+sep) {
			name = strings.TrimSuffix(dir, sep) + sep + name
		}
		if e.IsDir() {
			out = append(out, name+"/")
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to the cursor position
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]

		if !endsWithSpace && len(fields) > 0 {
			prefix = fields[len(fields)-1]
		}

		// Get the last complete field to check context
		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		// Number of arguments already complete, the command excluded.
		argPos := len(fields) - 1
		if !endsWithSpace {
			argPos--
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "order":
				completions = orderValues
			}
		}

		if completions == nil {
			switch cmdName {
			case "play", "exchange", "frontier":
				if argPos == 0 {
					completions = c.handIndexes()
				}
			case "new":
				if argPos == 0 {
					completions = orderValues
				}
			case "setconfig":
				if argPos == 1 && lastCompleteField == config.ConfigDebug {
					completions = []string{"true", "false"}
				}
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				switch {
				case strings.HasPrefix(prefix, "-"):
					completions = metadata.Options
				case len(metadata.Files) > 0:
					completions = filesWithExt(prefix, metadata.Files)
				case len(metadata.Args) > 0 && argPos == 0:
					completions = metadata.Args
				default:
					completions = metadata.Options
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
