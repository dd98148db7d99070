package policy

import (
	"testing"

	"cortex/internal/core"
)

func TestConnect4DepthTable(t *testing.T) {
	tests := []struct {
		level  int
		depth  int
		random float64
	}{
		{1, 1, 0.3},
		{2, 2, 0},
		{3, 4, 0},
		{4, 5, 0},
		{5, 7, 0},
		{0, 1, 0.3},
		{9, 7, 0},
	}
	for _, tt := range tests {
		p, err := Resolve(core.GameConnect4, tt.level, 0)
		if err != nil {
			t.Fatal(err)
		}
		if p.Strategy != StrategySearch || p.SearchDepth != tt.depth || p.RandomOverride != tt.random {
			t.Errorf("level %d: got %+v, want depth %d random %v", tt.level, p, tt.depth, tt.random)
		}
		if p.UseOracle {
			t.Errorf("level %d: connect4 must not use the oracle", tt.level)
		}
	}
}

func TestTicTacToeTiers(t *testing.T) {
	want := map[int]Strategy{
		1: StrategyRandom,
		2: StrategyTactical,
		3: StrategyTactical,
		4: StrategySearch,
		5: StrategySearch,
	}
	for level, strategy := range want {
		p, err := Resolve(core.GameTicTacToe, level, 0)
		if err != nil {
			t.Fatal(err)
		}
		if p.Strategy != strategy {
			t.Errorf("level %d: strategy %s, want %s", level, p.Strategy, strategy)
		}
		if p.RandomOverride != 0 {
			t.Errorf("level %d: unexpected random override %v", level, p.RandomOverride)
		}
		if strategy == StrategySearch && p.SearchDepth != TicTacToeFullDepth {
			t.Errorf("level %d: depth %d, want full", level, p.SearchDepth)
		}
	}
}

func TestChessPersonaFollowsMatchCount(t *testing.T) {
	for matches, tier := range map[int]int{-1: 0, 0: 0, 1: 1, 2: 2, 3: 2, 40: 2} {
		p, err := Resolve(core.GameChess, 5, matches)
		if err != nil {
			t.Fatal(err)
		}
		if !p.UseOracle || p.Strategy != StrategyOracle {
			t.Fatalf("chess should use the oracle, got %+v", p)
		}
		if p.Persona.Tier != tier {
			t.Errorf("matches %d: tier %d, want %d", matches, p.Persona.Tier, tier)
		}
		if p.Persona.Instruction == "" {
			t.Errorf("matches %d: empty persona instruction", matches)
		}
	}
}

func TestResolveUnknownGame(t *testing.T) {
	if _, err := Resolve("checkers", 1, 0); err == nil {
		t.Fatal("expected error for unknown game")
	}
}
