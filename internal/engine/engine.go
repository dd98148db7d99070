// FILE: internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"math"

	"cortex/internal/core"
)

const infinity = math.MaxInt32

var (
	// ErrTerminalPosition is a caller bug: the root must be checked for a result first
	ErrTerminalPosition = errors.New("search invoked on terminal position")
	// ErrNoLegalMoves signals an adapter that reported an ongoing position with nothing to play
	ErrNoLegalMoves = errors.New("non-terminal position has no legal moves")
)

// Adapter is the rules surface the search needs from a game
type Adapter[P any, M comparable] interface {
	LegalMoves(pos P) []M
	Apply(pos P, m M) (P, error)
	Status(pos P) core.Outcome
	SideToMove(pos P) core.Side
}

// Evaluator scores non-terminal positions from the maximizer's point of view.
// WinScore is the magnitude of a decided game before ply discounting.
type Evaluator[P any] interface {
	Evaluate(pos P, maximizer core.Side) int
	WinScore() int
}

type SearchResult[M comparable] struct {
	Move  M
	Score int
	Depth int
	Nodes int
}

// Searcher runs depth-limited minimax with alpha-beta pruning.
// It holds no per-search state and is safe for concurrent use.
type Searcher[P any, M comparable] struct {
	adapter Adapter[P, M]
	eval    Evaluator[P]
}

func New[P any, M comparable](a Adapter[P, M], e Evaluator[P]) *Searcher[P, M] {
	return &Searcher[P, M]{adapter: a, eval: e}
}

// Search picks a move for the side to move. When maximizing is false the
// root minimizes, which scores from the opponent's point of view.
// Ties go to the first move in adapter order.
func (s *Searcher[P, M]) Search(pos P, depth int, maximizing bool) (SearchResult[M], error) {
	var result SearchResult[M]
	if s.adapter.Status(pos).Terminal() {
		return result, ErrTerminalPosition
	}
	moves := s.adapter.LegalMoves(pos)
	if len(moves) == 0 {
		return result, ErrNoLegalMoves
	}
	if depth < 1 {
		depth = 1
	}

	maximizer := s.adapter.SideToMove(pos)
	if !maximizing {
		maximizer = maximizer.Opponent()
	}

	result.Depth = depth
	result.Move = moves[0]
	alpha, beta := -infinity, infinity
	best := infinity
	if maximizing {
		best = -infinity
	}

	for _, m := range moves {
		child, err := s.adapter.Apply(pos, m)
		if err != nil {
			return result, fmt.Errorf("apply legal move %v: %w", m, err)
		}
		score, err := s.alphaBeta(child, depth-1, 1, alpha, beta, !maximizing, maximizer, &result.Nodes)
		if err != nil {
			return result, err
		}
		if maximizing && score > best {
			best, result.Move = score, m
			alpha = max(alpha, score)
		} else if !maximizing && score < best {
			best, result.Move = score, m
			beta = min(beta, score)
		}
	}
	result.Score = best
	return result, nil
}

func (s *Searcher[P, M]) alphaBeta(pos P, depth, ply, alpha, beta int, maximizing bool, maximizer core.Side, nodes *int) (int, error) {
	*nodes++
	if o := s.adapter.Status(pos); o.Terminal() {
		return TerminalScore(o, maximizer, ply, s.eval.WinScore()), nil
	}
	if depth == 0 {
		return s.eval.Evaluate(pos, maximizer), nil
	}
	moves := s.adapter.LegalMoves(pos)
	if len(moves) == 0 {
		return 0, ErrNoLegalMoves
	}

	value := infinity
	if maximizing {
		value = -infinity
	}
	for _, m := range moves {
		child, err := s.adapter.Apply(pos, m)
		if err != nil {
			return 0, fmt.Errorf("apply legal move %v: %w", m, err)
		}
		score, err := s.alphaBeta(child, depth-1, ply+1, alpha, beta, !maximizing, maximizer, nodes)
		if err != nil {
			return 0, err
		}
		if maximizing {
			value = max(value, score)
			alpha = max(alpha, value)
		} else {
			value = min(value, score)
			beta = min(beta, value)
		}
		if alpha >= beta {
			break
		}
	}
	return value, nil
}

// TerminalScore values a decided position: wins shrink and losses grow with ply
func TerminalScore(o core.Outcome, maximizer core.Side, ply, large int) int {
	switch {
	case o.Status != core.StatusWin:
		return 0
	case o.Winner == maximizer:
		return large - ply
	default:
		return -large + ply
	}
}
