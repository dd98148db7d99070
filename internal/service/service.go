// FILE: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cortex/internal/core"
	"cortex/internal/game"
	"cortex/internal/oracle"
	"cortex/internal/storage"
)

const (
	MaxGames           = 50
	GameIdleTTL        = 2 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrTooManyGames = errors.New("too many active games")
	ErrUnknownGame  = errors.New("unknown game kind")
)

type Config struct {
	Store  *storage.Store // Optional
	Oracle oracle.Config  // Stored settings override Provider and APIKey
}

type entry struct {
	match   game.Match
	pinned  bool // Level chosen at creation, progression does not apply
	counted bool // Finish already recorded; cleared on reset
	touched time.Time
}

// Service owns the active games, the player's progress and the oracle settings
type Service struct {
	games  map[string]*entry
	mu     sync.RWMutex
	store  *storage.Store
	waiter *WaitRegistry
	oracle *oracleHolder
	book   *progressBook
}

// New builds a service, loading settings and progress from the store if present
func New(cfg Config) (*Service, error) {
	s := &Service{
		games:  make(map[string]*entry),
		store:  cfg.Store,
		waiter: NewWaitRegistry(),
		book:   newProgressBook(),
	}

	oracleCfg := cfg.Oracle
	if s.store != nil {
		if err := s.book.load(s.store); err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		if err := loadOracleSettings(s.store, &oracleCfg); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	s.oracle = newOracleHolder(oracleCfg)

	log.Info().
		Str("provider", string(s.oracle.client().Provider())).
		Bool("oracle", s.oracle.client().Configured()).
		Msg("Service initialized")
	return s, nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	e.touched = time.Now()
	return e.match, nil
}

// GameCount returns the number of active games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// DeleteGame removes a game. A pending computer turn is left to finish
// against the orphaned session.
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	s.waiter.RemoveGame(gameID)
	return nil
}

// UndoMoves reverts count plies and drops them from storage
func (s *Service) UndoMoves(gameID string, count int) error {
	m, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	wasFinished := m.State().Finished()
	if err := m.Undo(count); err != nil {
		return err
	}

	moves := len(m.Moves())
	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, moves)
		if wasFinished {
			s.store.RecordResult(gameID, core.StateOngoing.String(), m.Level(), s.book.tierFor(m.Kind()), time.Now().UTC())
		}
	}
	s.waiter.NotifyGame(gameID, moves)
	return nil
}

// ResetGame starts a game over at the current progress level
func (s *Service) ResetGame(gameID string) error {
	m, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	m.Reset()
	return nil
}

// WaitForMove parks a client that has seen moveCount moves while the
// computer is thinking. The returned channel closes once the game moves on;
// the caller must call release when done. The game is checked again after
// registering so a move committed in between is not missed.
func (s *Service) WaitForMove(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, context.CancelFunc, error) {
	m, err := s.GetGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	wctx, release := context.WithCancel(ctx)
	notify := s.waiter.RegisterWait(gameID, moveCount, wctx)
	if len(m.Moves()) != moveCount || m.State() != core.StatePending {
		release()
	}
	return notify, release, nil
}

// RunCleanupJob evicts idle games until ctx is cancelled
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-GameIdleTTL))
		}
	}
}

func (s *Service) evictIdle(cutoff time.Time) int {
	s.mu.Lock()
	var evicted []string
	for id, e := range s.games {
		if e.touched.Before(cutoff) && e.match.State() != core.StatePending {
			delete(s.games, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.waiter.RemoveGame(id)
	}
	if len(evicted) > 0 {
		log.Info().Int("count", len(evicted)).Msg("Evicted idle games")
	}
	return len(evicted)
}

// Shutdown releases waiters and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	s.games = make(map[string]*entry)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
