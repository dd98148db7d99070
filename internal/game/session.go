// FILE: internal/game/session.go
package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"cortex/internal/core"
	"cortex/internal/policy"
)

// Session owns one game's position and history. The human plays first.
type Session[P any, M comparable] struct {
	mu         sync.Mutex
	id         string
	kind       core.GameKind
	level      int
	rules      Rules[P, M]
	chooser    Chooser[P, M]
	params     ParamsFunc
	observer   Observer
	snapshots  []Snapshot[P]
	state      core.State
	generation uint64
	lastResult *MoveResult
}

type Config[P any, M comparable] struct {
	ID       string
	Kind     core.GameKind
	Level    int
	Start    P
	Rules    Rules[P, M]
	Chooser  Chooser[P, M]
	Params   ParamsFunc
	Observer Observer // Optional
}

func NewSession[P any, M comparable](cfg Config[P, M]) *Session[P, M] {
	s := &Session[P, M]{
		id:       cfg.ID,
		kind:     cfg.Kind,
		level:    core.ClampLevel(cfg.Level),
		rules:    cfg.Rules,
		chooser:  cfg.Chooser,
		params:   cfg.Params,
		observer: cfg.Observer,
	}
	s.snapshots = []Snapshot[P]{s.snapshot(cfg.Start, "")}
	s.state = core.StateFromOutcome(s.rules.Status(cfg.Start))
	return s
}

func (s *Session[P, M]) snapshot(pos P, move string) Snapshot[P] {
	return Snapshot[P]{
		Position:     pos,
		Notation:     s.rules.Notation(pos),
		PreviousMove: move,
		NextTurn:     s.rules.SideToMove(pos),
	}
}

func (s *Session[P, M]) current() Snapshot[P] {
	return s.snapshots[len(s.snapshots)-1]
}

func (s *Session[P, M]) ID() string          { return s.id }
func (s *Session[P, M]) Kind() core.GameKind { return s.kind }

func (s *Session[P, M]) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SetLevel changes the difficulty used from the next computer turn on
func (s *Session[P, M]) SetLevel(level int) {
	s.mu.Lock()
	s.level = core.ClampLevel(level)
	s.mu.Unlock()
}

func (s *Session[P, M]) State() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session[P, M]) Turn() core.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().NextTurn
}

func (s *Session[P, M]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Position returns the current position
func (s *Session[P, M]) Position() P {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().Position
}

func (s *Session[P, M]) Moves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := []string{}
	for i := 1; i < len(s.snapshots); i++ {
		moves = append(moves, s.snapshots[i].PreviousMove)
	}
	return moves
}

func (s *Session[P, M]) Notation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().Notation
}

func (s *Session[P, M]) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.Render(s.current().Position)
}

// InCheck reports whether the side to move is in check, for games that have one
func (s *Session[P, M]) InCheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := any(s.current().Position).(interface{ InCheck() bool }); ok {
		return c.InCheck()
	}
	return false
}

// EndReason names how a finished game ended when the rules report it,
// e.g. "Checkmate" or "Stalemate"
func (s *Session[P, M]) EndReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Finished() {
		return ""
	}
	if r, ok := any(s.current().Position).(interface{ Method() string }); ok {
		return r.Method()
	}
	return ""
}

func (s *Session[P, M]) LastResult() *MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil
	}
	r := *s.lastResult
	return &r
}

// PlayHuman validates and commits the human's move
func (s *Session[P, M]) PlayHuman(text string) (MoveResult, error) {
	s.mu.Lock()
	if err := s.checkPlayable(); err != nil {
		s.mu.Unlock()
		return MoveResult{}, err
	}
	pos := s.current().Position
	if s.rules.SideToMove(pos) != core.HumanSide {
		s.mu.Unlock()
		return MoveResult{}, ErrNotHumanTurn
	}
	m, err := s.rules.ParseMove(pos, text)
	if err != nil {
		s.mu.Unlock()
		return MoveResult{}, err
	}
	result, err := s.commit(pos, m, MoveResult{Source: "human"})
	s.mu.Unlock()
	if err != nil {
		return MoveResult{}, err
	}

	s.notify(result)
	return result, nil
}

// BeginComputerTurn marks the session pending and returns the ticket that
// finishes the turn. A second call while pending fails.
func (s *Session[P, M]) BeginComputerTurn() (*Ticket, error) {
	params, err := s.params(s.Level())
	if err != nil {
		return nil, fmt.Errorf("resolve difficulty: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlayable(); err != nil {
		return nil, err
	}
	pos := s.current().Position
	if s.rules.SideToMove(pos) != core.ComputerSide {
		return nil, ErrNotComputerTurn
	}

	s.state = core.StatePending
	gen := s.generation

	return &Ticket{
		generation: gen,
		resolve: func(ctx context.Context) (MoveResult, error) {
			return s.finishComputerTurn(ctx, gen, pos, params)
		},
	}, nil
}

func (s *Session[P, M]) finishComputerTurn(ctx context.Context, gen uint64, pos P, params policy.Params) (MoveResult, error) {
	choice, chooseErr := s.chooser.Choose(ctx, pos, params)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Debug().Str("game", s.id).Uint64("generation", gen).Msg("Discarding stale computer move")
		return MoveResult{}, ErrTurnDiscarded
	}
	if chooseErr != nil {
		s.state = core.StateFromOutcome(s.rules.Status(pos))
		s.mu.Unlock()
		return MoveResult{}, fmt.Errorf("choose move: %w", chooseErr)
	}

	result, err := s.commit(pos, choice.Move, MoveResult{
		Source: string(choice.Source),
		Status: choice.Status,
		Score:  choice.Score,
		Depth:  choice.Depth,
	})
	if err != nil {
		s.state = core.StateFromOutcome(s.rules.Status(pos))
		s.mu.Unlock()
		return MoveResult{}, err
	}
	s.mu.Unlock()

	s.notify(result)
	return result, nil
}

// commit applies a move to pos and records it. Caller holds the lock.
func (s *Session[P, M]) commit(pos P, m M, result MoveResult) (MoveResult, error) {
	side := s.rules.SideToMove(pos)
	text := s.rules.Format(pos, m)
	next, err := s.rules.Apply(pos, m)
	if err != nil {
		return MoveResult{}, err
	}

	snap := s.snapshot(next, text)
	s.snapshots = append(s.snapshots, snap)
	s.state = core.StateFromOutcome(s.rules.Status(next))

	result.Move = text
	result.Number = len(s.snapshots) - 1
	result.Notation = snap.Notation
	result.Side = side
	result.GameState = s.state
	s.lastResult = &result
	return result, nil
}

func (s *Session[P, M]) notify(r MoveResult) {
	if s.observer == nil {
		return
	}
	s.observer.MoveCommitted(s, r)
	if r.GameState.Finished() {
		s.observer.GameFinished(s, r.GameState)
	}
}

// Reset starts over and invalidates any pending ticket
func (s *Session[P, M]) Reset() {
	s.mu.Lock()
	s.generation++
	s.snapshots = s.snapshots[:1]
	s.state = core.StateFromOutcome(s.rules.Status(s.snapshots[0].Position))
	s.lastResult = nil
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.GameReset(s)
	}
}

// Undo reverts count plies
func (s *Session[P, M]) Undo(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == core.StatePending {
		return ErrTurnPending
	}
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}
	available := len(s.snapshots) - 1
	if available < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, available)
	}

	s.snapshots = s.snapshots[:len(s.snapshots)-count]
	s.state = core.StateFromOutcome(s.rules.Status(s.current().Position))
	s.lastResult = nil
	return nil
}

func (s *Session[P, M]) checkPlayable() error {
	switch {
	case s.state == core.StatePending:
		return ErrTurnPending
	case s.state.Finished():
		return ErrGameOver
	}
	return nil
}
