// FILE: internal/opponent/tictactoe.go
package opponent

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"cortex/internal/arbiter"
	"cortex/internal/board"
	"cortex/internal/engine"
	"cortex/internal/eval"
	"cortex/internal/policy"
)

// TicTacToe picks three-in-a-row moves. Not safe for concurrent use; one per session.
type TicTacToe struct {
	rules   board.TicTacToe
	search  *engine.Searcher[board.Grid, board.Cell]
	arbiter *arbiter.Arbiter[board.Grid, board.Cell]
}

func NewTicTacToe(rng *rand.Rand) *TicTacToe {
	rules := board.TicTacToe{}
	return &TicTacToe{
		rules:   rules,
		search:  engine.New[board.Grid, board.Cell](rules, eval.TicTacToe{}),
		arbiter: arbiter.New[board.Grid, board.Cell](rules, newRng(rng)),
	}
}

func (o *TicTacToe) Choose(_ context.Context, g board.Grid, p policy.Params) (Choice[board.Cell], error) {
	switch p.Strategy {
	case policy.StrategyTactical:
		side := o.rules.SideToMove(g)
		if c, ok := o.rules.WinningCell(g, side); ok {
			return verdictOnly(o.arbiter.FromMove(g, c, arbiter.SourceTactical))
		}
		if c, ok := o.rules.WinningCell(g, side.Opponent()); ok {
			return verdictOnly(o.arbiter.FromMove(g, c, arbiter.SourceTactical))
		}
		return o.random(g)

	case policy.StrategySearch:
		res, err := o.search.Search(g, p.SearchDepth, true)
		if err != nil {
			log.Warn().Err(err).Msg("Search failed")
			return verdictOnly(o.arbiter.Fallback(g, err))
		}
		v, err := o.arbiter.FromMove(g, res.Move, arbiter.SourceSearch)
		return Choice[board.Cell]{Verdict: v, Score: res.Score, Depth: res.Depth}, err

	default:
		return o.random(g)
	}
}

func (o *TicTacToe) random(g board.Grid) (Choice[board.Cell], error) {
	c, err := o.arbiter.RandomMove(g)
	if err != nil {
		return Choice[board.Cell]{}, err
	}
	return verdictOnly(o.arbiter.FromMove(g, c, arbiter.SourceRandom))
}
