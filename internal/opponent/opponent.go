// FILE: internal/opponent/opponent.go
package opponent

import (
	"context"
	"math/rand/v2"

	"cortex/internal/arbiter"
)

// Asker is the oracle as seen by the chess opponent
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Choice is an arbitrated move plus search diagnostics when a search ran
type Choice[M comparable] struct {
	arbiter.Verdict[M]
	Score int
	Depth int
}

func newRng(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func verdictOnly[M comparable](v arbiter.Verdict[M], err error) (Choice[M], error) {
	return Choice[M]{Verdict: v}, err
}
