// FILE: internal/arbiter/arbiter.go
package arbiter

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"cortex/internal/oracle"
)

// Source records where a committed move came from
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceSearch   Source = "search"
	SourceTactical Source = "tactical"
	SourceRandom   Source = "random"
	SourceHuman    Source = "human"
)

// Verdict is the single move the arbiter commits for a turn.
// Status is a transient message for the player; empty when nothing went wrong.
type Verdict[M comparable] struct {
	Move   M
	Source Source
	Status string
	Cause  error
}

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoLegalMoves = errors.New("no legal moves")
)

// IllegalMoveError carries the rejected candidate
type IllegalMoveError struct {
	Candidate string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %q", e.Candidate)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

// Rules is the part of a board adapter the arbiter validates against
type Rules[P any, M comparable] interface {
	LegalMoves(pos P) []M
	ParseMove(pos P, text string) (M, error)
}

// Fallback supplies a replacement move when a candidate is rejected
type Fallback[P any, M comparable] func(pos P) (M, Source, error)

// Arbiter validates candidate moves and guarantees one legal move per call
type Arbiter[P any, M comparable] struct {
	rules    Rules[P, M]
	rng      *rand.Rand
	extract  func(text string) []string
	fallback Fallback[P, M]
}

func New[P any, M comparable](rules Rules[P, M], rng *rand.Rand) *Arbiter[P, M] {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Arbiter[P, M]{rules: rules, rng: rng}
}

// WithExtractor sets a pattern scan over the whole reply, tried after the first token
func (a *Arbiter[P, M]) WithExtractor(f func(text string) []string) *Arbiter[P, M] {
	a.extract = f
	return a
}

// WithFallback replaces uniform random as the fallback
func (a *Arbiter[P, M]) WithFallback(f Fallback[P, M]) *Arbiter[P, M] {
	a.fallback = f
	return a
}

// Validate turns raw text into a legal move without side effects
func (a *Arbiter[P, M]) Validate(pos P, raw string) (M, error) {
	token := Normalize(raw)
	if token != "" {
		if m, err := a.rules.ParseMove(pos, token); err == nil {
			return m, nil
		}
	}
	if a.extract != nil {
		for _, candidate := range a.extract(Clean(raw)) {
			if m, err := a.rules.ParseMove(pos, candidate); err == nil {
				return m, nil
			}
		}
	}
	var zero M
	return zero, &IllegalMoveError{Candidate: token}
}

// FromText arbitrates an oracle reply. A non-nil cause is the oracle's
// failure and goes straight to the fallback.
func (a *Arbiter[P, M]) FromText(pos P, raw string, cause error) (v Verdict[M], err error) {
	defer a.recoverTo(pos, &v, &err)

	if cause != nil {
		return a.Fallback(pos, cause)
	}
	m, verr := a.Validate(pos, raw)
	if verr != nil {
		log.Warn().Str("reply", truncate(raw, 80)).Msg("Oracle reply rejected")
		return a.Fallback(pos, verr)
	}
	return Verdict[M]{Move: m, Source: SourceOracle}, nil
}

// FromMove arbitrates a locally chosen move
func (a *Arbiter[P, M]) FromMove(pos P, m M, src Source) (v Verdict[M], err error) {
	defer a.recoverTo(pos, &v, &err)

	if a.isLegal(pos, m) {
		return Verdict[M]{Move: m, Source: src}, nil
	}
	return a.Fallback(pos, &IllegalMoveError{Candidate: fmt.Sprint(m)})
}

// Fallback picks a replacement move after cause. The configured fallback is
// tried first; its failure or an illegal result ends in uniform random.
func (a *Arbiter[P, M]) Fallback(pos P, cause error) (Verdict[M], error) {
	if a.fallback != nil {
		m, src, err := a.safeFallback(pos)
		if err == nil && a.isLegal(pos, m) {
			return Verdict[M]{Move: m, Source: src, Status: statusFor(cause, src), Cause: cause}, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("Fallback failed, using random move")
		}
	}
	m, err := a.RandomMove(pos)
	if err != nil {
		return Verdict[M]{Cause: cause}, err
	}
	return Verdict[M]{Move: m, Source: SourceRandom, Status: statusFor(cause, SourceRandom), Cause: cause}, nil
}

// RandomMove draws uniformly from the legal set
func (a *Arbiter[P, M]) RandomMove(pos P) (M, error) {
	moves := a.rules.LegalMoves(pos)
	if len(moves) == 0 {
		var zero M
		return zero, ErrNoLegalMoves
	}
	return moves[a.rng.IntN(len(moves))], nil
}

func (a *Arbiter[P, M]) isLegal(pos P, m M) bool {
	for _, legal := range a.rules.LegalMoves(pos) {
		if legal == m {
			return true
		}
	}
	return false
}

func (a *Arbiter[P, M]) safeFallback(pos P) (m M, src Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fallback panic: %v", r)
		}
	}()
	return a.fallback(pos)
}

// recoverTo turns a panic anywhere in arbitration into a random move
func (a *Arbiter[P, M]) recoverTo(pos P, v *Verdict[M], err *error) {
	r := recover()
	if r == nil {
		return
	}
	cause := fmt.Errorf("arbitration panic: %v", r)
	log.Error().Err(cause).Msg("Recovered during arbitration")
	m, rerr := a.RandomMove(pos)
	if rerr != nil {
		*v, *err = Verdict[M]{Cause: cause}, rerr
		return
	}
	*v = Verdict[M]{Move: m, Source: SourceRandom, Status: statusFor(cause, SourceRandom), Cause: cause}
	*err = nil
}

// statusFor is the player-facing message for a fallback
func statusFor(cause error, src Source) string {
	if cause == nil || errors.Is(cause, oracle.ErrNotConfigured) {
		return ""
	}
	prefix := "Cortex offline."
	if errors.Is(cause, ErrIllegalMove) {
		prefix = "Cortex glitch."
	}
	switch src {
	case SourceSearch:
		return prefix + " Engine move."
	case SourceTactical:
		return prefix + " Tactical move."
	default:
		return prefix + " Random move."
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
