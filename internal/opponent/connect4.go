// FILE: internal/opponent/connect4.go
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

// fallbackDepth is the search used when a chosen column is rejected
const fallbackDepth = 2

// Connect4 picks four-in-a-row moves with an optional random override
type Connect4 struct {
	rng     *rand.Rand
	search  *engine.Searcher[board.Drop, board.Column]
	arbiter *arbiter.Arbiter[board.Drop, board.Column]
}

func NewConnect4(rng *rand.Rand) *Connect4 {
	rng = newRng(rng)
	rules := board.Connect4{}
	search := engine.New[board.Drop, board.Column](rules, eval.Connect4{})
	shallow := func(d board.Drop) (board.Column, arbiter.Source, error) {
		res, err := search.Search(d, fallbackDepth, true)
		return res.Move, arbiter.SourceSearch, err
	}
	return &Connect4{
		rng:     rng,
		search:  search,
		arbiter: arbiter.New[board.Drop, board.Column](rules, rng).WithFallback(shallow),
	}
}

func (o *Connect4) Choose(_ context.Context, d board.Drop, p policy.Params) (Choice[board.Column], error) {
	if p.Strategy == policy.StrategyRandom || (p.RandomOverride > 0 && o.rng.Float64() < p.RandomOverride) {
		col, err := o.arbiter.RandomMove(d)
		if err != nil {
			return Choice[board.Column]{}, err
		}
		return verdictOnly(o.arbiter.FromMove(d, col, arbiter.SourceRandom))
	}

	res, err := o.search.Search(d, p.SearchDepth, true)
	if err != nil {
		log.Warn().Err(err).Msg("Search failed")
		return verdictOnly(o.arbiter.Fallback(d, err))
	}
	log.Debug().Int("column", int(res.Move)).Int("score", res.Score).Int("depth", res.Depth).Int("nodes", res.Nodes).Msg("Connect4 search")

	v, err := o.arbiter.FromMove(d, res.Move, arbiter.SourceSearch)
	return Choice[board.Column]{Verdict: v, Score: res.Score, Depth: res.Depth}, err
}
