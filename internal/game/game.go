// FILE: internal/game/game.go
package game

import (
	"context"
	"errors"

	"cortex/internal/core"
	"cortex/internal/engine"
	"cortex/internal/opponent"
	"cortex/internal/policy"
)

var (
	ErrTurnPending     = errors.New("computer move in progress")
	ErrGameOver        = errors.New("game is over")
	ErrNotHumanTurn    = errors.New("not human player's turn")
	ErrNotComputerTurn = errors.New("not computer player's turn")
	ErrTurnDiscarded   = errors.New("game was reset while the computer was thinking")
)

// Snapshot is one position in the session history
type Snapshot[P any] struct {
	Position     P
	Notation     string    // Position text at this point (FEN for chess)
	PreviousMove string    // Move that produced this position, empty for the start
	NextTurn     core.Side // Whose turn it is at this position
}

// MoveResult tracks the outcome of a committed move
type MoveResult struct {
	Move      string
	Number    int    // Ply count after the move
	Notation  string // Position text after the move
	Side      core.Side
	Source    string
	Status    string // Transient message from the arbiter
	GameState core.State
	Score     int
	Depth     int
}

// Rules is a board adapter with the text surface a session needs
type Rules[P any, M comparable] interface {
	engine.Adapter[P, M]
	ParseMove(pos P, text string) (M, error)
	Format(pos P, m M) string
	Render(pos P) string
	Notation(pos P) string
}

// Chooser picks the computer's move
type Chooser[P any, M comparable] interface {
	Choose(ctx context.Context, pos P, p policy.Params) (opponent.Choice[M], error)
}

// ParamsFunc resolves difficulty for the session's current level when a
// computer turn begins
type ParamsFunc func(level int) (policy.Params, error)

// Observer receives session events. Calls happen outside the session lock.
type Observer interface {
	MoveCommitted(m Match, r MoveResult)
	GameFinished(m Match, state core.State)
	GameReset(m Match)
}

// Match is the type-erased view of a session used by the service and transports
type Match interface {
	ID() string
	Kind() core.GameKind
	Level() int
	State() core.State
	Turn() core.Side
	Moves() []string
	Notation() string
	Render() string
	LastResult() *MoveResult
	Generation() uint64
	InCheck() bool
	EndReason() string

	PlayHuman(text string) (MoveResult, error)
	BeginComputerTurn() (*Ticket, error)
	Reset()
	Undo(count int) error
	SetLevel(level int)
}

// Ticket is a pending computer turn bound to the generation it started in
type Ticket struct {
	generation uint64
	resolve    func(ctx context.Context) (MoveResult, error)
}

func (t *Ticket) Generation() uint64 {
	return t.generation
}

// Resolve chooses and commits the computer move. It returns ErrTurnDiscarded
// when the session was reset in the meantime.
func (t *Ticket) Resolve(ctx context.Context) (MoveResult, error) {
	return t.resolve(ctx)
}
