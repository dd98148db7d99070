package eval

import (
	"testing"

	"cortex/internal/board"
	"cortex/internal/core"
)

func TestConnect4EmptyBoardIsNeutral(t *testing.T) {
	if got := (Connect4{}).Evaluate(board.NewDrop(), core.SideSecond); got != 0 {
		t.Fatalf("empty board score = %d, want 0", got)
	}
}

func TestConnect4CenterBonus(t *testing.T) {
	a := board.Connect4{}
	d, _ := a.Apply(board.NewDrop(), 3)
	// A lone disc contributes only the center weight
	if got := (Connect4{}).Evaluate(d, core.SideFirst); got != centerWeight {
		t.Fatalf("score = %d, want %d", got, centerWeight)
	}
	if got := (Connect4{}).Evaluate(d, core.SideSecond); got != 0 {
		t.Fatalf("opponent view score = %d, want 0", got)
	}
}

func TestConnect4RivalThreatOutweighsOwnThree(t *testing.T) {
	var d board.Drop
	bottom := board.Rows - 1
	d.Cells[bottom][0] = core.SideFirst
	d.Cells[bottom][1] = core.SideFirst
	d.Cells[bottom][2] = core.SideFirst

	e := Connect4{}
	own := e.Evaluate(d, core.SideFirst)
	rival := e.Evaluate(d, core.SideSecond)
	if own <= 0 {
		t.Fatalf("own three scored %d, want positive", own)
	}
	if rival >= 0 || -rival <= own {
		t.Fatalf("rival view scored %d, want a larger negative magnitude than %d", rival, own)
	}
}

func TestScoreWindow(t *testing.T) {
	w := board.Windows[0]
	tests := []struct {
		name  string
		marks [4]core.Side
		want  int
	}{
		{"four", [4]core.Side{1, 1, 1, 1}, ownFour},
		{"three", [4]core.Side{1, 1, 1, 0}, ownThree},
		{"two", [4]core.Side{1, 0, 1, 0}, ownTwo},
		{"rival three", [4]core.Side{2, 2, 0, 2}, rivalThree},
		{"rival two", [4]core.Side{0, 2, 2, 0}, rivalTwo},
		{"mixed", [4]core.Side{1, 2, 1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d board.Drop
			for i, cell := range w {
				d.Cells[cell[0]][cell[1]] = tt.marks[i]
			}
			if got := scoreWindow(d, w, core.SideFirst); got != tt.want {
				t.Fatalf("scoreWindow = %d, want %d", got, tt.want)
			}
		})
	}
}
