// FILE: internal/storage/game.go
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, game_kind, level, tier, result, start_time_utc
		) VALUES (?, ?, ?, ?, 'ongoing', ?)`

		_, err := tx.Exec(query,
			record.GameID, record.GameKind, record.Level, record.Tier, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move_text, notation_after, side, source, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.MoveText,
			record.NotationAfter, record.Side, record.Source, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores how a game ended. An "ongoing" result
// clears the end time, which is what a reset needs.
func (s *Store) RecordResult(gameID, result string, level, tier int, at time.Time) {
	s.enqueue("result", func(tx *sql.Tx) error {
		var end sql.NullTime
		if result != "ongoing" {
			end = sql.NullTime{Time: at, Valid: true}
		}
		_, err := tx.Exec(
			`UPDATE games SET result = ?, level = ?, tier = ?, end_time_utc = ? WHERE game_id = ?`,
			result, level, tier, end, gameID,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo or reset
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// QueryGames retrieves games with optional filtering. Empty or "*" matches all.
func (s *Store) QueryGames(gameID, gameKind string) ([]GameRecord, error) {
	query := `SELECT
		game_id, game_kind, level, tier, result, start_time_utc, end_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if gameKind != "" && gameKind != "*" {
		query += " AND game_kind = ?"
		args = append(args, gameKind)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var end sql.NullTime
		if err := rows.Scan(
			&g.GameID, &g.GameKind, &g.Level, &g.Tier, &g.Result, &g.StartTimeUTC, &end,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if end.Valid {
			t := end.Time
			g.EndTimeUTC = &t
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns a game's moves in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move_text, notation_after, side, source, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveText,
			&m.NotationAfter, &m.Side, &m.Source, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
