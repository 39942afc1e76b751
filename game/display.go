package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const handSeparator = " | "

// HandText lays out a player's hand as two aligned rows: the tokens, and
// underneath the 1-based indexes used to pick them.
func (g *Game) HandText(playerIdx int) string {
	var toks, idxs strings.Builder
	for k, t := range g.players[playerIdx].hand {
		ts := t.String()
		ks := strconv.Itoa(k + 1)
		w := max(utf8.RuneCountInString(ts), len(ks))
		toks.WriteString(ts + strings.Repeat(" ", w-utf8.RuneCountInString(ts)) + handSeparator)
		idxs.WriteString(ks + strings.Repeat(" ", w-len(ks)) + handSeparator)
	}
	return "Available tokens: " + toks.String() + "\n" +
		"         Indices: " + idxs.String()
}

type standing struct {
	nick   string
	points int
}

func (g *Game) standings() []standing {
	st := make([]standing, len(g.players))
	for i, p := range g.players {
		st[i] = standing{p.Nickname, p.points}
	}
	sort.SliceStable(st, func(i, j int) bool { return st[i].points > st[j].points })
	return st
}

// ScoresText ranks the players by score, best first. Ties keep seat order.
func (g *Game) ScoresText() string {
	lines := []string{"Scores:"}
	for rank, s := range g.standings() {
		lines = append(lines, fmt.Sprintf("\t[%d] %s: %d", rank+1, s.nick, s.points))
	}
	return strings.Join(lines, "\n")
}

// ToDisplayText turns the current state of the game into a displayable
// string: the board with its indexes, whose turn it is with their hand,
// and the scores.
func (g *Game) ToDisplayText() string {
	log.Debug().Int("onturn", g.onturn).Msg("todisplaytext")
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText())
	sb.WriteString("\n\n")
	switch g.playing {
	case Playing:
		fmt.Fprintf(&sb, "=> %s is playing. (%d left in the stack)\n", g.NickOnTurn(), g.StackRemaining())
		sb.WriteString(g.HandText(g.onturn))
		sb.WriteString("\n\n")
	case GameOver:
		fmt.Fprintf(&sb, "Game over (%s).\n\n", g.endReason)
	}
	sb.WriteString(g.ScoresText())
	return sb.String()
}
