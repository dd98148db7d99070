package engine

import (
	"errors"
	"testing"

	"cortex/internal/board"
	"cortex/internal/core"
	"cortex/internal/eval"
)

func gridOf(turn core.Side, marks map[board.Cell]core.Side) board.Grid {
	g := board.Grid{Turn: turn}
	for c, s := range marks {
		g.Cells[c] = s
		g.Ply++
	}
	return g
}

func tttSearcher() *Searcher[board.Grid, board.Cell] {
	return New[board.Grid, board.Cell](board.TicTacToe{}, eval.TicTacToe{})
}

func c4Searcher() *Searcher[board.Drop, board.Column] {
	return New[board.Drop, board.Column](board.Connect4{}, eval.Connect4{})
}

func TestTicTacToeBlocksImmediateLoss(t *testing.T) {
	x, o := core.SideFirst, core.SideSecond
	g := gridOf(o, map[board.Cell]core.Side{0: x, 1: x, 4: o})

	for _, maximizing := range []bool{true, false} {
		res, err := tttSearcher().Search(g, 9, maximizing)
		if err != nil {
			t.Fatal(err)
		}
		if res.Move != 2 {
			t.Fatalf("maximizing=%v: move = %d, want 2", maximizing, res.Move)
		}
	}
}

func TestTicTacToePrefersFasterWin(t *testing.T) {
	x, o := core.SideFirst, core.SideSecond
	immediate := gridOf(x, map[board.Cell]core.Side{0: x, 1: x, 3: o, 4: o})
	forced := gridOf(x, map[board.Cell]core.Side{0: x, 8: x, 2: o, 4: o})

	fast, err := tttSearcher().Search(immediate, 9, true)
	if err != nil {
		t.Fatal(err)
	}
	slow, err := tttSearcher().Search(forced, 9, true)
	if err != nil {
		t.Fatal(err)
	}
	if fast.Move != 2 || fast.Score != eval.TicTacToeWin-1 {
		t.Fatalf("immediate win: move %d score %d, want 2 and %d", fast.Move, fast.Score, eval.TicTacToeWin-1)
	}
	if slow.Move != 6 || slow.Score != eval.TicTacToeWin-3 {
		t.Fatalf("forced win: move %d score %d, want 6 and %d", slow.Move, slow.Score, eval.TicTacToeWin-3)
	}
	if fast.Score <= slow.Score {
		t.Fatalf("immediate win %d should outscore forced win %d", fast.Score, slow.Score)
	}
}

func TestTerminalScore(t *testing.T) {
	first := core.SideFirst
	if got := TerminalScore(core.Win(first), first, 1, 10); got != 9 {
		t.Fatalf("win at ply 1 = %d, want 9", got)
	}
	if got := TerminalScore(core.Win(first), first, 2, 10); got != 8 {
		t.Fatalf("win at ply 2 = %d, want 8", got)
	}
	if got := TerminalScore(core.Win(first.Opponent()), first, 2, 10); got != -8 {
		t.Fatalf("loss at ply 2 = %d, want -8", got)
	}
	if got := TerminalScore(core.Draw(), first, 5, 10); got != 0 {
		t.Fatalf("draw = %d, want 0", got)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	s := c4Searcher()
	d := board.NewDrop()
	want, err := s.Search(d, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := s.Search(d, 4, true)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("run %d: %+v, want %+v", i, got, want)
		}
	}
}

func TestConnect4BlocksAtDepth(t *testing.T) {
	red, yellow := core.SideFirst, core.SideSecond
	bottom := board.Rows - 1
	d := board.Drop{Turn: yellow, Ply: 5}
	d.Cells[bottom][0] = red
	d.Cells[bottom][1] = red
	d.Cells[bottom][2] = red
	d.Cells[bottom][6] = yellow
	d.Cells[bottom-1][6] = yellow

	for _, depth := range []int{4, 5} {
		res, err := c4Searcher().Search(d, depth, true)
		if err != nil {
			t.Fatal(err)
		}
		if res.Move != 3 {
			t.Fatalf("depth %d: move = %d, want 3", depth, res.Move)
		}
	}
}

func TestConnect4ShallowSearchSkipsFullColumn(t *testing.T) {
	a := board.Connect4{}
	s := c4Searcher()

	res, err := s.Search(board.NewDrop(), 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Move < 0 || res.Move >= board.Columns {
		t.Fatalf("move %d out of range", res.Move)
	}
	if res.Nodes != board.Columns {
		t.Fatalf("depth 1 expanded %d nodes, want %d", res.Nodes, board.Columns)
	}

	d := board.NewDrop()
	for i := 0; i < board.Rows; i++ {
		d, _ = a.Apply(d, 3)
	}
	res, err = s.Search(d, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Move == 3 {
		t.Fatal("search chose the full center column")
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	d := board.NewDrop()
	d, _ = board.Connect4{}.Apply(d, 2)
	before := d
	if _, err := c4Searcher().Search(d, 5, true); err != nil {
		t.Fatal(err)
	}
	if d != before {
		t.Fatal("search mutated its input position")
	}
}

func TestSearchRejectsTerminalRoot(t *testing.T) {
	x := core.SideFirst
	g := gridOf(core.SideSecond, map[board.Cell]core.Side{0: x, 1: x, 2: x, 3: core.SideSecond, 4: core.SideSecond})
	if _, err := tttSearcher().Search(g, 3, true); !errors.Is(err, ErrTerminalPosition) {
		t.Fatalf("expected ErrTerminalPosition, got %v", err)
	}
}

func TestSearchClampsDepth(t *testing.T) {
	res, err := c4Searcher().Search(board.NewDrop(), 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Depth != 1 {
		t.Fatalf("depth = %d, want 1", res.Depth)
	}
}
