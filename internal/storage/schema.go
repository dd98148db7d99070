// FILE: internal/storage/schema.go
package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string     `db:"game_id"`
	GameKind     string     `db:"game_kind"`
	Level        int        `db:"level"`
	Tier         int        `db:"tier"` // Chess persona tier, 0 for other games
	Result       string     `db:"result"`
	StartTimeUTC time.Time  `db:"start_time_utc"`
	EndTimeUTC   *time.Time `db:"end_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID        int64     `db:"move_id"`
	GameID        string    `db:"game_id"`
	MoveNumber    int       `db:"move_number"`
	MoveText      string    `db:"move_text"`
	NotationAfter string    `db:"notation_after"`
	Side          string    `db:"side"`
	Source        string    `db:"source"`
	MoveTimeUTC   time.Time `db:"move_time_utc"`
}

// ProgressRecord is the stored difficulty for one game kind
type ProgressRecord struct {
	GameKind      string `db:"game_kind"`
	Level         int    `db:"level"`
	MatchesPlayed int    `db:"matches_played"`
}

// Setting keys
const (
	SettingProvider = "provider"
	SettingAPIKey   = "api_key"
)

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	game_kind TEXT NOT NULL CHECK(game_kind IN ('tictactoe', 'connect4', 'chess')),
	level INTEGER NOT NULL CHECK(level BETWEEN 1 AND 5),
	tier INTEGER NOT NULL DEFAULT 0,
	result TEXT NOT NULL DEFAULT 'ongoing',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_text TEXT NOT NULL,
	notation_after TEXT NOT NULL,
	side TEXT NOT NULL CHECK(side IN ('first', 'second')),
	source TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS progress (
	game_kind TEXT PRIMARY KEY CHECK(game_kind IN ('tictactoe', 'connect4', 'chess')),
	level INTEGER NOT NULL DEFAULT 1 CHECK(level BETWEEN 1 AND 5),
	matches_played INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_kind ON games(game_kind);
`
