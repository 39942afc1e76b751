// Package store keeps finished games and autoplay results in a SQLite
// database file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/nutok/nutok/automatic"
	"github.com/nutok/nutok/game"
)

var ErrNotFound = errors.New("not found")

// Store wraps the database handle.
type Store struct {
	db   *sql.DB
	path string
}

// GameRecord is one row of the games listing.
type GameRecord struct {
	ID        string
	Order     int
	PlayState string
	Turns     int
	SavedAt   time.Time
}

// AutoplayRecord is one stored automatic game.
type AutoplayRecord struct {
	RunID      string
	GameIdx    int
	Order      int
	Seed       uint64
	Placements int
	Left       int
	Hash       string
	Board      string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("store-opened")
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SaveGame stores the game's snapshot and current scores, replacing any
// earlier save of the same game.
func (s *Store) SaveGame(ctx context.Context, g *game.Game) error {
	data, err := g.Snapshot().Marshal()
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO games (game_id, token_order, seed, play_state, turns, snapshot, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.Uid(), g.Order(), strconv.FormatUint(g.Seed(), 10), g.Playing().String(),
		g.Turn(), string(data), now())
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE game_id = ?`, g.Uid()); err != nil {
		return err
	}
	for seat := 0; seat < g.NumPlayers(); seat++ {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scores (game_id, seat, nickname, points) VALUES (?, ?, ?, ?)`,
			g.Uid(), seat, g.Nickname(seat), g.PointsFor(seat))
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Str("id", g.Uid()).Msg("game-stored")
	return nil
}

// LoadGameSnapshot fetches the snapshot stored for a game.
func (s *Store) LoadGameSnapshot(ctx context.Context, id string) (*game.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM games WHERE game_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return game.ParseSnapshot([]byte(data))
}

// LoadGame rebuilds a stored game by replaying its snapshot.
func (s *Store) LoadGame(ctx context.Context, id string) (*game.Game, error) {
	snap, err := s.LoadGameSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.FromSnapshot(snap)
}

// ListGames returns the most recently saved games first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, token_order, play_state, turns, saved_at FROM games
		 ORDER BY saved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []GameRecord
	for rows.Next() {
		var r GameRecord
		var saved string
		if err := rows.Scan(&r.ID, &r.Order, &r.PlayState, &r.Turns, &saved); err != nil {
			return nil, err
		}
		r.SavedAt, err = time.Parse(time.RFC3339Nano, saved)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// SaveAutoplay stores one automatic game under a run.
func (s *Store) SaveAutoplay(ctx context.Context, runID string, gameIdx int, res *automatic.Result) error {
	return saveAutoplay(ctx, s.db, runID, gameIdx, res)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveAutoplay(ctx context.Context, ex execer, runID string, gameIdx int, res *automatic.Result) error {
	_, err := ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO autoplay
		 (run_id, game_idx, token_order, seed, placements, tokens_left, board_hash, board, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, gameIdx, res.Order, strconv.FormatUint(res.Seed, 10), res.Placements, res.Left,
		fmt.Sprintf("%016x", res.Hash), res.Board.String(), now())
	return err
}

// SaveRun stores every game of a batch in one transaction under a new run
// id, which it returns.
func (s *Store) SaveRun(ctx context.Context, sm *automatic.RunSummary) (string, error) {
	runID := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	for i, res := range sm.Results {
		if err := saveAutoplay(ctx, tx, runID, i+1, res); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	log.Info().Str("run", runID).Int("games", len(sm.Results)).Msg("run-stored")
	return runID, nil
}

// TopAutoplay returns the n stored automatic games of the given order with
// the most placements.
func (s *Store) TopAutoplay(ctx context.Context, order, n int) ([]AutoplayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, game_idx, token_order, seed, placements, tokens_left, board_hash, board
		 FROM autoplay WHERE token_order = ?
		 ORDER BY placements DESC, created_at ASC, game_idx ASC LIMIT ?`, order, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []AutoplayRecord
	for rows.Next() {
		var r AutoplayRecord
		var seed string
		if err := rows.Scan(&r.RunID, &r.GameIdx, &r.Order, &seed, &r.Placements, &r.Left,
			&r.Hash, &r.Board); err != nil {
			return nil, err
		}
		r.Seed, err = strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
