// FILE: internal/policy/policy.go
package policy

import (
	"fmt"

	"cortex/internal/core"
)

// Strategy is how the computer picks its move for a turn
type Strategy int

const (
	StrategyRandom   Strategy = iota // Uniform over legal moves
	StrategyTactical                 // Win now, else block, else random
	StrategySearch                   // Alpha-beta to SearchDepth
	StrategyOracle                   // Remote oracle with local fallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategyTactical:
		return "tactical"
	case StrategySearch:
		return "search"
	case StrategyOracle:
		return "oracle"
	default:
		return "unknown"
	}
}

// Params is the resolved difficulty for one turn
type Params struct {
	Game           core.GameKind
	Level          int
	Strategy       Strategy
	SearchDepth    int
	RandomOverride float64 // Probability of replacing the search with a random move
	UseOracle      bool
	Persona        Persona // Chess only
}

// TicTacToeFullDepth searches the whole remaining tree
const TicTacToeFullDepth = 9

var connect4Depth = map[int]int{1: 1, 2: 2, 3: 4, 4: 5, 5: 7}

const connect4LowLevelRandom = 0.3

// Resolve maps a game and level to search and oracle parameters.
// Levels outside [1, 5] are clamped. Chess ignores the level and derives its
// persona from the number of chess matches completed.
func Resolve(game core.GameKind, level, chessMatches int) (Params, error) {
	level = core.ClampLevel(level)
	p := Params{Game: game, Level: level}

	switch game {
	case core.GameTicTacToe:
		switch {
		case level == 1:
			p.Strategy = StrategyRandom
		case level <= 3:
			p.Strategy = StrategyTactical
			p.SearchDepth = 1
		default:
			p.Strategy = StrategySearch
			p.SearchDepth = TicTacToeFullDepth
		}

	case core.GameConnect4:
		p.Strategy = StrategySearch
		p.SearchDepth = connect4Depth[level]
		if level == 1 {
			p.RandomOverride = connect4LowLevelRandom
		}

	case core.GameChess:
		p.Strategy = StrategyOracle
		p.UseOracle = true
		p.Persona = PersonaFor(chessMatches)

	default:
		return Params{}, fmt.Errorf("unknown game %q", game)
	}
	return p, nil
}
