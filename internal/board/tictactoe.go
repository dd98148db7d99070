// FILE: internal/board/tictactoe.go
package board

import (
	"fmt"
	"strconv"
	"strings"

	"cortex/internal/core"
)

// Cell indexes the 3x3 grid row by row, 0 through 8
type Cell int

// Grid is a three-in-a-row position
type Grid struct {
	Cells [9]core.Side
	Turn  core.Side
	Ply   int
}

// NewGrid returns the empty starting grid with the first side to move
func NewGrid() Grid {
	return Grid{Turn: core.SideFirst}
}

var gridLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

var gridSymbols = markSymbols{first: 'X', second: 'O', empty: '.'}

// TicTacToe is the board adapter for three-in-a-row
type TicTacToe struct{}

func (TicTacToe) LegalMoves(g Grid) []Cell {
	if gridWinner(g) != core.SideNone {
		return nil
	}
	moves := make([]Cell, 0, 9-g.Ply)
	for i, c := range g.Cells {
		if c == core.SideNone {
			moves = append(moves, Cell(i))
		}
	}
	return moves
}

func (t TicTacToe) Apply(g Grid, c Cell) (Grid, error) {
	if t.Status(g).Terminal() {
		return g, ErrGameOver
	}
	if c < 0 || c > 8 {
		return g, fmt.Errorf("%w: cell %d out of range", ErrIllegalMove, c)
	}
	if g.Cells[c] != core.SideNone {
		return g, fmt.Errorf("%w: cell %d is occupied", ErrIllegalMove, c)
	}
	g.Cells[c] = g.Turn
	g.Turn = g.Turn.Opponent()
	g.Ply++
	return g, nil
}

func (TicTacToe) Status(g Grid) core.Outcome {
	if w := gridWinner(g); w != core.SideNone {
		return core.Win(w)
	}
	for _, c := range g.Cells {
		if c == core.SideNone {
			return core.Ongoing()
		}
	}
	return core.Draw()
}

func (TicTacToe) SideToMove(g Grid) core.Side {
	return g.Turn
}

// WinningCell finds a cell that would complete a line for side, regardless of whose turn it is
func (TicTacToe) WinningCell(g Grid, side core.Side) (Cell, bool) {
	for i := range g.Cells {
		if g.Cells[i] != core.SideNone {
			continue
		}
		g.Cells[i] = side
		won := gridWinner(g) == side
		g.Cells[i] = core.SideNone
		if won {
			return Cell(i), true
		}
	}
	return -1, false
}

func (t TicTacToe) ParseMove(g Grid, text string) (Cell, error) {
	n, err := parseIndex(text, 0, 8)
	if err != nil {
		return -1, err
	}
	c := Cell(n)
	if !contains(t.LegalMoves(g), c) {
		return -1, fmt.Errorf("%w: cell %d is not available", ErrIllegalMove, n)
	}
	return c, nil
}

func (TicTacToe) Format(_ Grid, c Cell) string {
	return strconv.Itoa(int(c))
}

// Render draws the grid with cell indexes for empty squares
func (TicTacToe) Render(g Grid) string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			if g.Cells[i] == core.SideNone {
				sb.WriteString(fmt.Sprintf(" %d ", i))
			} else {
				sb.WriteString(fmt.Sprintf(" %c ", gridSymbols.symbol(g.Cells[i])))
			}
			if c < 2 {
				sb.WriteString("|")
			}
		}
		if r < 2 {
			sb.WriteString("\n---+---+---\n")
		}
	}
	return sb.String()
}

// Notation is the nine cells as X/O/. followed by the side to move
func (TicTacToe) Notation(g Grid) string {
	var sb strings.Builder
	for _, c := range g.Cells {
		sb.WriteByte(gridSymbols.symbol(c))
	}
	sb.WriteByte(' ')
	sb.WriteByte(gridSymbols.symbol(g.Turn))
	return sb.String()
}

func gridWinner(g Grid) core.Side {
	for _, l := range gridLines {
		a := g.Cells[l[0]]
		if a != core.SideNone && a == g.Cells[l[1]] && a == g.Cells[l[2]] {
			return a
		}
	}
	return core.SideNone
}
