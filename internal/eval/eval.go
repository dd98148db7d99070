// FILE: internal/eval/eval.go
package eval

import (
	"cortex/internal/board"
	"cortex/internal/core"
)

// Terminal score magnitudes. Wins are discounted by ply so faster wins rank higher.
const (
	TicTacToeWin = 10
	Connect4Win  = 1_000_000
)

// TicTacToe scores only terminal positions; non-terminal grids are neutral
type TicTacToe struct{}

func (TicTacToe) Evaluate(board.Grid, core.Side) int { return 0 }

func (TicTacToe) WinScore() int { return TicTacToeWin }

// Window weights for four-in-a-row
const (
	ownFour      = 100
	ownThree     = 5
	ownTwo       = 2
	rivalThree   = -80
	rivalTwo     = -10
	centerWeight = 3
	centerColumn = board.Columns / 2
)

// Connect4 sums a score over every four-cell window plus a center column bonus
type Connect4 struct{}

func (Connect4) WinScore() int { return Connect4Win }

func (Connect4) Evaluate(d board.Drop, maximizer core.Side) int {
	score := 0
	for r := 0; r < board.Rows; r++ {
		if d.Cells[r][centerColumn] == maximizer {
			score += centerWeight
		}
	}
	for _, w := range board.Windows {
		score += scoreWindow(d, w, maximizer)
	}
	return score
}

func scoreWindow(d board.Drop, w board.Window, maximizer core.Side) int {
	var own, rival, empty int
	for _, cell := range w {
		switch d.Cells[cell[0]][cell[1]] {
		case maximizer:
			own++
		case core.SideNone:
			empty++
		default:
			rival++
		}
	}

	score := 0
	switch {
	case own == 4:
		score += ownFour
	case own == 3 && empty == 1:
		score += ownThree
	case own == 2 && empty == 2:
		score += ownTwo
	}
	switch {
	case rival == 3 && empty == 1:
		score += rivalThree
	case rival == 2 && empty == 2:
		score += rivalTwo
	}
	return score
}
