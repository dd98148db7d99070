// FILE: internal/storage/progress.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns a stored value and whether the key exists
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting synchronously stores a value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// LoadProgress returns the stored progress rows keyed by game kind
func (s *Store) LoadProgress() (map[string]ProgressRecord, error) {
	rows, err := s.db.Query(`SELECT game_kind, level, matches_played FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]ProgressRecord)
	for rows.Next() {
		var p ProgressRecord
		if err := rows.Scan(&p.GameKind, &p.Level, &p.MatchesPlayed); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		progress[p.GameKind] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return progress, nil
}

// SaveProgress synchronously upserts one game kind's progress
func (s *Store) SaveProgress(p ProgressRecord) error {
	_, err := s.db.Exec(`INSERT INTO progress (game_kind, level, matches_played) VALUES (?, ?, ?)
		ON CONFLICT(game_kind) DO UPDATE SET level = excluded.level, matches_played = excluded.matches_played`,
		p.GameKind, p.Level, p.MatchesPlayed)
	if err != nil {
		return fmt.Errorf("failed to save progress for %s: %w", p.GameKind, err)
	}
	return nil
}

// ResetProgress drops the stored progress of one game kind, or of every
// kind when gameKind is empty
func (s *Store) ResetProgress(gameKind string) error {
	var err error
	if gameKind == "" {
		_, err = s.db.Exec(`DELETE FROM progress`)
	} else {
		_, err = s.db.Exec(`DELETE FROM progress WHERE game_kind = ?`, gameKind)
	}
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}
