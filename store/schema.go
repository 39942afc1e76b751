package store

// Tables are created on open if they do not exist yet, so a database file
// survives across runs.
const (
	createGames = `CREATE TABLE IF NOT EXISTS games (
    game_id TEXT PRIMARY KEY,
    token_order INTEGER NOT NULL,
    seed TEXT NOT NULL,
    play_state TEXT NOT NULL,
    turns INTEGER NOT NULL,
    snapshot TEXT NOT NULL,
    saved_at TEXT NOT NULL
);`

	createScores = `CREATE TABLE IF NOT EXISTS scores (
    game_id TEXT NOT NULL,
    seat INTEGER NOT NULL,
    nickname TEXT NOT NULL,
    points INTEGER NOT NULL,
    PRIMARY KEY (game_id, seat),
    FOREIGN KEY (game_id) REFERENCES games(game_id)
);`

	createAutoplay = `CREATE TABLE IF NOT EXISTS autoplay (
    run_id TEXT NOT NULL,
    game_idx INTEGER NOT NULL,
    token_order INTEGER NOT NULL,
    seed TEXT NOT NULL,
    placements INTEGER NOT NULL,
    tokens_left INTEGER NOT NULL,
    board_hash TEXT NOT NULL,
    board TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (run_id, game_idx)
);`

	createAutoplayIndex = `CREATE INDEX IF NOT EXISTS idx_autoplay_order_placements
    ON autoplay (token_order, placements DESC);`
)

var schemaSQL = createGames + "\n" + createScores + "\n" + createAutoplay + "\n" + createAutoplayIndex
