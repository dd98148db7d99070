package board

import (
	"errors"
	"math/rand/v2"
	"testing"

	"cortex/internal/core"
)

func TestTicTacToeLegalMovesNonEmptyUntilTerminal(t *testing.T) {
	a := TicTacToe{}
	rng := rand.New(rand.NewPCG(1, 2))
	for game := 0; game < 200; game++ {
		g := NewGrid()
		for !a.Status(g).Terminal() {
			moves := a.LegalMoves(g)
			if len(moves) == 0 {
				t.Fatalf("no legal moves in non-terminal grid %s", a.Notation(g))
			}
			next, err := a.Apply(g, moves[rng.IntN(len(moves))])
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			g = next
		}
		if len(a.LegalMoves(g)) != 0 && a.Status(g).Status == core.StatusWin {
			t.Fatalf("won grid %s still has legal moves", a.Notation(g))
		}
	}
}

func TestTicTacToeApplyDoesNotMutate(t *testing.T) {
	a := TicTacToe{}
	g := NewGrid()
	next, err := a.Apply(g, 4)
	if err != nil {
		t.Fatal(err)
	}
	if g.Cells[4] != core.SideNone || g.Ply != 0 || g.Turn != core.SideFirst {
		t.Fatalf("original grid changed: %+v", g)
	}
	if next.Cells[4] != core.SideFirst || next.Turn != core.SideSecond {
		t.Fatalf("unexpected next grid: %+v", next)
	}
	if _, err := a.Apply(next, 4); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for occupied cell, got %v", err)
	}
}

func TestTicTacToeStatusAndWinningCell(t *testing.T) {
	a := TicTacToe{}
	g := NewGrid()
	for _, c := range []Cell{0, 4, 1} {
		var err error
		if g, err = a.Apply(g, c); err != nil {
			t.Fatal(err)
		}
	}
	if cell, ok := a.WinningCell(g, core.SideFirst); !ok || cell != 2 {
		t.Fatalf("WinningCell = %d, %v; want 2, true", cell, ok)
	}
	if _, ok := a.WinningCell(g, core.SideSecond); ok {
		t.Fatal("second side should have no winning cell")
	}
	g, _ = a.Apply(g, 8)
	g, _ = a.Apply(g, 2)
	if o := a.Status(g); o.Status != core.StatusWin || o.Winner != core.SideFirst {
		t.Fatalf("status = %+v, want first side win", o)
	}
	if _, err := a.Apply(g, 3); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestTicTacToeParseMove(t *testing.T) {
	a := TicTacToe{}
	g, _ := a.Apply(NewGrid(), 0)
	if c, err := a.ParseMove(g, " 5 "); err != nil || c != 5 {
		t.Fatalf("ParseMove(5) = %d, %v", c, err)
	}
	for _, in := range []string{"0", "9", "-1", "x", ""} {
		if _, err := a.ParseMove(g, in); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) err = %v, want ErrIllegalMove", in, err)
		}
	}
}

func TestConnect4Gravity(t *testing.T) {
	a := Connect4{}
	d := NewDrop()
	d, _ = a.Apply(d, 3)
	d, _ = a.Apply(d, 3)
	if d.Cells[Rows-1][3] != core.SideFirst || d.Cells[Rows-2][3] != core.SideSecond {
		t.Fatalf("discs did not stack:\n%s", a.Render(d))
	}
	if LandingRow(d, 3) != Rows-3 {
		t.Fatalf("LandingRow = %d, want %d", LandingRow(d, 3), Rows-3)
	}
}

func TestConnect4FullColumnIsIllegal(t *testing.T) {
	a := Connect4{}
	d := NewDrop()
	for i := 0; i < Rows; i++ {
		var err error
		if d, err = a.Apply(d, 3); err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
	}
	for _, m := range a.LegalMoves(d) {
		if m == 3 {
			t.Fatal("full column listed as legal")
		}
	}
	if _, err := a.Apply(d, 3); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := a.ParseMove(d, "3"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove from ParseMove, got %v", err)
	}
}

func TestConnect4Wins(t *testing.T) {
	a := Connect4{}
	tests := []struct {
		name  string
		moves []Column
	}{
		{"horizontal", []Column{0, 0, 1, 1, 2, 2, 3}},
		{"vertical", []Column{0, 1, 0, 1, 0, 1, 0}},
		{"diagonal", []Column{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3}},
		{"anti-diagonal", []Column{6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDrop()
			for _, m := range tt.moves {
				var err error
				if d, err = a.Apply(d, m); err != nil {
					t.Fatalf("apply %d: %v", m, err)
				}
			}
			if o := a.Status(d); o.Status != core.StatusWin || o.Winner != core.SideFirst {
				t.Fatalf("status = %+v\n%s", o, a.Render(d))
			}
			if len(a.LegalMoves(d)) != 0 {
				t.Fatal("won position still has legal moves")
			}
		})
	}
}

func TestConnect4LegalMovesNonEmptyUntilTerminal(t *testing.T) {
	a := Connect4{}
	rng := rand.New(rand.NewPCG(7, 11))
	for game := 0; game < 200; game++ {
		d := NewDrop()
		for !a.Status(d).Terminal() {
			moves := a.LegalMoves(d)
			if len(moves) == 0 {
				t.Fatalf("no legal moves in non-terminal position %s", a.Notation(d))
			}
			d, _ = a.Apply(d, moves[rng.IntN(len(moves))])
		}
	}
}

func TestChessFoolsMate(t *testing.T) {
	a := Chess{}
	p := NewChessPosition()
	for _, san := range []string{"f3", "e5", "g4", "Qh4#"} {
		m, err := a.ParseMove(p, san)
		if err != nil {
			t.Fatalf("parse %s: %v", san, err)
		}
		if p, err = a.Apply(p, m); err != nil {
			t.Fatalf("apply %s: %v", san, err)
		}
	}
	if o := a.Status(p); o.Status != core.StatusWin || o.Winner != core.SideSecond {
		t.Fatalf("status = %+v, want second side win", o)
	}
	if !p.InCheck() {
		t.Fatal("mated side should be in check")
	}
	if len(a.LegalMoves(p)) != 0 {
		t.Fatal("mated position has legal moves")
	}
	if got := p.History(); len(got) != 4 || got[3] != "Qh4#" {
		t.Fatalf("History = %v", got)
	}
}

func TestChessParseAcceptsSANAndUCI(t *testing.T) {
	a := Chess{}
	p := NewChessPosition()
	for _, in := range []string{"Nf3", "g1f3"} {
		m, err := a.ParseMove(p, in)
		if err != nil || m != "g1f3" {
			t.Fatalf("ParseMove(%q) = %q, %v", in, m, err)
		}
	}
	for _, in := range []string{"", "Ke2", "e2e5", "hello"} {
		if _, err := a.ParseMove(p, in); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) err = %v, want ErrIllegalMove", in, err)
		}
	}
	if got := a.Format(p, "g1f3"); got != "Nf3" {
		t.Fatalf("Format = %q, want Nf3", got)
	}
}

func TestChessApplyDoesNotMutate(t *testing.T) {
	a := Chess{}
	p := NewChessPosition()
	before := p.FEN()
	next, err := a.Apply(p, "e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if p.FEN() != before {
		t.Fatalf("original position changed to %s", p.FEN())
	}
	if a.SideToMove(next) != core.SideSecond {
		t.Fatal("black should be to move")
	}
	if _, err := a.Apply(p, "e2e5"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestChessFromFEN(t *testing.T) {
	p, err := ChessFromFEN(StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(Chess{}.LegalMoves(p)); n != 20 {
		t.Fatalf("legal moves = %d, want 20", n)
	}
	if _, err := ChessFromFEN("not a fen"); err == nil {
		t.Fatal("expected error for invalid FEN")
	}
}
