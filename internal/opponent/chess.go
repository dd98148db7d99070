// FILE: internal/opponent/chess.go
package opponent

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"cortex/internal/arbiter"
	"cortex/internal/board"
	"cortex/internal/core"
	"cortex/internal/oracle"
	"cortex/internal/policy"
)

// Chess asks the oracle for a move and falls back to a random legal move.
// There is no local chess evaluation.
type Chess struct {
	rules   board.Chess
	oracle  Asker
	arbiter *arbiter.Arbiter[board.ChessPosition, board.ChessMove]
}

func NewChess(asker Asker, rng *rand.Rand) *Chess {
	rules := board.Chess{}
	return &Chess{
		rules:   rules,
		oracle:  asker,
		arbiter: arbiter.New[board.ChessPosition, board.ChessMove](rules, newRng(rng)).WithExtractor(arbiter.SANCandidates),
	}
}

func (o *Chess) Choose(ctx context.Context, pos board.ChessPosition, p policy.Params) (Choice[board.ChessMove], error) {
	if !p.UseOracle {
		return verdictOnly(o.arbiter.Fallback(pos, nil))
	}
	if o.oracle == nil {
		return verdictOnly(o.arbiter.FromText(pos, "", oracle.ErrNotConfigured))
	}

	req := oracle.Request{
		FEN:     pos.FEN(),
		History: pos.History(),
		Persona: p.Persona.Instruction,
		Side:    sideName(o.rules.SideToMove(pos)),
	}
	reply, err := o.oracle.Ask(ctx, req.Prompt())
	if err != nil && !errors.Is(err, oracle.ErrNotConfigured) {
		log.Warn().Err(err).Int("tier", p.Persona.Tier).Msg("Oracle unavailable")
	}

	v, aerr := o.arbiter.FromText(pos, reply, err)
	if aerr == nil {
		log.Debug().Str("move", string(v.Move)).Str("source", string(v.Source)).Msg("Chess move chosen")
	}
	return verdictOnly(v, aerr)
}

func sideName(s core.Side) string {
	if s == core.SideFirst {
		return "WHITE"
	}
	return "BLACK"
}
