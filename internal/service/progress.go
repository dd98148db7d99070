// FILE: internal/service/progress.go
package service

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"cortex/internal/core"
	"cortex/internal/policy"
	"cortex/internal/storage"
)

// progressBook tracks the unlocked level per game and the chess match counter
type progressBook struct {
	mu      sync.Mutex
	levels  map[core.GameKind]int
	matches int
}

func newProgressBook() *progressBook {
	b := &progressBook{levels: make(map[core.GameKind]int)}
	for _, k := range core.Games {
		b.levels[k] = core.MinLevel
	}
	return b
}

func (b *progressBook) load(store *storage.Store) error {
	rows, err := store.LoadProgress()
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for kind, rec := range rows {
		k := core.GameKind(kind)
		if !k.Valid() {
			continue
		}
		b.levels[k] = core.ClampLevel(rec.Level)
		if k == core.GameChess {
			b.matches = max(rec.MatchesPlayed, 0)
		}
	}
	return nil
}

func (b *progressBook) level(kind core.GameKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[kind]
}

func (b *progressBook) chessMatches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.matches
}

// tierFor is the chess persona tier, 0 for other games
func (b *progressBook) tierFor(kind core.GameKind) int {
	if kind != core.GameChess {
		return 0
	}
	return policy.Tier(b.chessMatches())
}

// finish records a finished game played at level and returns the new row.
// countMatch is false when the same chess game finishes again after an undo.
func (b *progressBook) finish(kind core.GameKind, level int, humanWon, countMatch bool) storage.ProgressRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	if humanWon {
		b.levels[kind] = max(b.levels[kind], min(level+1, core.MaxLevel))
	}
	rec := storage.ProgressRecord{GameKind: kind.String(), Level: b.levels[kind]}
	if kind == core.GameChess {
		if countMatch {
			b.matches++
		}
		rec.MatchesPlayed = b.matches
	}
	return rec
}

// reset returns kind to the first level, clearing the match counter for
// chess. An empty kind resets every game.
func (b *progressBook) reset(kind core.GameKind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kinds := []core.GameKind{kind}
	if kind == "" {
		kinds = core.Games
	}
	for _, k := range kinds {
		b.levels[k] = core.MinLevel
		if k == core.GameChess {
			b.matches = 0
		}
	}
}

func (b *progressBook) snapshot() (map[string]int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	levels := make(map[string]int, len(b.levels))
	for k, v := range b.levels {
		levels[k.String()] = v
	}
	return levels, b.matches
}

// ChessPersona is the persona the next chess turn plays as
func (s *Service) ChessPersona() policy.Persona {
	return policy.PersonaFor(s.book.chessMatches())
}

// ResetProgress clears the unlocked level of kind, or of every game when
// kind is empty. Resetting chess also clears the match counter.
func (s *Service) ResetProgress(kind core.GameKind) error {
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGame, kind)
	}
	if s.store != nil {
		if err := s.store.ResetProgress(kind.String()); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}
	s.book.reset(kind)

	scope := kind.String()
	if scope == "" {
		scope = "all"
	}
	log.Info().Str("kind", scope).Msg("Progress reset")
	return nil
}

// Progress reports levels, the chess match counter and oracle settings
func (s *Service) Progress() core.ProgressResponse {
	levels, matches := s.book.snapshot()
	c := s.oracle.client()
	return core.ProgressResponse{
		Levels:       levels,
		ChessMatches: matches,
		ChessTier:    policy.Tier(matches),
		Provider:     string(c.Provider()),
		HasAPIKey:    c.Configured(),
	}
}
