// FILE: internal/service/game.go
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cortex/internal/board"
	"cortex/internal/core"
	"cortex/internal/game"
	"cortex/internal/opponent"
	"cortex/internal/policy"
	"cortex/internal/storage"
)

// CreateGame starts a session for kind. A level of 0 follows the stored
// progress for that game; any other level is pinned for the session.
func (s *Service) CreateGame(kind core.GameKind, level int) (game.Match, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, kind)
	}
	pinned := level != 0
	if pinned {
		level = core.ClampLevel(level)
	} else {
		level = s.book.level(kind)
	}

	s.mu.Lock()
	if len(s.games) >= MaxGames {
		s.mu.Unlock()
		return nil, ErrTooManyGames
	}
	id := s.generateGameID()
	m := s.newMatch(id, kind, level)
	s.games[id] = &entry{match: m, pinned: pinned, touched: time.Now()}
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			GameKind:     kind.String(),
			Level:        level,
			Tier:         s.book.tierFor(kind),
			StartTimeUTC: time.Now().UTC(),
		})
	}

	log.Info().Str("game", id).Str("kind", kind.String()).Int("level", level).Bool("pinned", pinned).Msg("Game created")
	return m, nil
}

// generateGameID creates a unique id. Caller holds s.mu.
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

func (s *Service) newMatch(id string, kind core.GameKind, level int) game.Match {
	params := func(level int) (policy.Params, error) {
		return policy.Resolve(kind, level, s.book.chessMatches())
	}

	switch kind {
	case core.GameTicTacToe:
		return game.NewSession(game.Config[board.Grid, board.Cell]{
			ID: id, Kind: kind, Level: level,
			Start:    board.NewGrid(),
			Rules:    board.TicTacToe{},
			Chooser:  opponent.NewTicTacToe(nil),
			Params:   params,
			Observer: s,
		})
	case core.GameConnect4:
		return game.NewSession(game.Config[board.Drop, board.Column]{
			ID: id, Kind: kind, Level: level,
			Start:    board.NewDrop(),
			Rules:    board.Connect4{},
			Chooser:  opponent.NewConnect4(nil),
			Params:   params,
			Observer: s,
		})
	default:
		return game.NewSession(game.Config[board.ChessPosition, board.ChessMove]{
			ID: id, Kind: kind, Level: level,
			Start:    board.NewChessPosition(),
			Rules:    board.Chess{},
			Chooser:  opponent.NewChess(s.oracle, nil),
			Params:   params,
			Observer: s,
		})
	}
}

// MoveCommitted persists the move and wakes long-polling clients
func (s *Service) MoveCommitted(m game.Match, r game.MoveResult) {
	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:        m.ID(),
			MoveNumber:    r.Number,
			MoveText:      r.Move,
			NotationAfter: r.Notation,
			Side:          r.Side.String(),
			Source:        r.Source,
			MoveTimeUTC:   time.Now().UTC(),
		})
	}
	s.waiter.NotifyGame(m.ID(), r.Number)
}

// GameFinished applies level progression: a human win raises the level,
// anything else keeps it. A finished chess game counts as one match until
// it is reset, so finishing again after an undo does not add another.
func (s *Service) GameFinished(m game.Match, state core.State) {
	s.mu.Lock()
	e, ok := s.games[m.ID()]
	repeat := ok && e.counted
	if ok {
		e.counted = true
	}
	s.mu.Unlock()

	kind := m.Kind()
	tier := s.book.tierFor(kind)
	rec := s.book.finish(kind, m.Level(), state == core.StateFirstWins, !repeat)

	if s.store != nil {
		s.store.RecordResult(m.ID(), state.String(), m.Level(), tier, time.Now().UTC())
		if err := s.store.SaveProgress(rec); err != nil {
			log.Error().Err(err).Str("kind", kind.String()).Msg("Failed to save progress")
		}
	}

	log.Info().
		Str("game", m.ID()).
		Str("result", state.String()).
		Int("level", rec.Level).
		Int("matches", rec.MatchesPlayed).
		Bool("repeat", repeat).
		Msg("Game finished")
}

// GameReset clears stored moves and moves unpinned sessions to the
// current progress level
func (s *Service) GameReset(m game.Match) {
	s.mu.Lock()
	e, ok := s.games[m.ID()]
	pinned := ok && e.pinned
	if ok {
		e.counted = false
	}
	s.mu.Unlock()

	if !pinned {
		m.SetLevel(s.book.level(m.Kind()))
	}
	if s.store != nil {
		s.store.DeleteUndoneMoves(m.ID(), 0)
		s.store.RecordResult(m.ID(), core.StateOngoing.String(), m.Level(), s.book.tierFor(m.Kind()), time.Now().UTC())
	}
	s.waiter.NotifyGame(m.ID(), 0)
}
