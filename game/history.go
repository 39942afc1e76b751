package game

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const historyTimeLayout = "2006-01-02_15-04-05"

// HistoryFilename names the record of a game that ended at t.
func (g *Game) HistoryFilename(t time.Time) string {
	return fmt.Sprintf("game_%d_%s.txt", g.order, t.Format(historyTimeLayout))
}

// HistoryText is what gets kept of a finished game: the board with its
// indexes, a blank line, then the scores.
func (g *Game) HistoryText() string {
	return g.board.ToDisplayText() + "\n\n" + g.ScoresText()
}

// WriteHistory saves HistoryText under dir, creating it if needed, and
// returns the path written.
func (g *Game) WriteHistory(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, g.HistoryFilename(time.Now()))
	if err := os.WriteFile(path, []byte(g.HistoryText()), 0o644); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("game-saved")
	return path, nil
}
