// FILE: internal/board/connect4.go
package board

import (
	"fmt"
	"strconv"
	"strings"

	"cortex/internal/core"
)

const (
	Rows    = 6
	Columns = 7
)

// Column is the index of a drop target, 0 through 6 left to right
type Column int

// Drop is a four-in-a-row position. Row 0 is the top of the board.
type Drop struct {
	Cells [Rows][Columns]core.Side
	Turn  core.Side
	Ply   int
}

func NewDrop() Drop {
	return Drop{Turn: core.SideFirst}
}

var dropSymbols = markSymbols{first: 'R', second: 'Y', empty: '.'}

// Connect4 is the board adapter for the gravity drop game
type Connect4 struct{}

// LegalMoves lists the non-full columns in ascending order
func (Connect4) LegalMoves(d Drop) []Column {
	if dropWinner(d) != core.SideNone {
		return nil
	}
	moves := make([]Column, 0, Columns)
	for c := 0; c < Columns; c++ {
		if d.Cells[0][c] == core.SideNone {
			moves = append(moves, Column(c))
		}
	}
	return moves
}

func (Connect4) Apply(d Drop, col Column) (Drop, error) {
	if dropWinner(d) != core.SideNone {
		return d, ErrGameOver
	}
	if col < 0 || col >= Columns {
		return d, fmt.Errorf("%w: column %d out of range", ErrIllegalMove, col)
	}
	row := LandingRow(d, col)
	if row < 0 {
		return d, fmt.Errorf("%w: column %d is full", ErrIllegalMove, col)
	}
	d.Cells[row][col] = d.Turn
	d.Turn = d.Turn.Opponent()
	d.Ply++
	return d, nil
}

// LandingRow is the lowest empty row in col, or -1 when the column is full
func LandingRow(d Drop, col Column) int {
	for r := Rows - 1; r >= 0; r-- {
		if d.Cells[r][col] == core.SideNone {
			return r
		}
	}
	return -1
}

func (Connect4) Status(d Drop) core.Outcome {
	if w := dropWinner(d); w != core.SideNone {
		return core.Win(w)
	}
	if d.Ply >= Rows*Columns {
		return core.Draw()
	}
	for c := 0; c < Columns; c++ {
		if d.Cells[0][c] == core.SideNone {
			return core.Ongoing()
		}
	}
	return core.Draw()
}

func (Connect4) SideToMove(d Drop) core.Side {
	return d.Turn
}

func (a Connect4) ParseMove(d Drop, text string) (Column, error) {
	n, err := parseIndex(text, 0, Columns-1)
	if err != nil {
		return -1, err
	}
	col := Column(n)
	if !contains(a.LegalMoves(d), col) {
		return -1, fmt.Errorf("%w: column %d is not available", ErrIllegalMove, n)
	}
	return col, nil
}

func (Connect4) Format(_ Drop, col Column) string {
	return strconv.Itoa(int(col))
}

func (Connect4) Render(d Drop) string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteString("|")
		for c := 0; c < Columns; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(dropSymbols.symbol(d.Cells[r][c]))
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("  0 1 2 3 4 5 6")
	return sb.String()
}

// Notation lists rows top to bottom separated by '/', then the side to move
func (Connect4) Notation(d Drop) string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < Columns; c++ {
			sb.WriteByte(dropSymbols.symbol(d.Cells[r][c]))
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(dropSymbols.symbol(d.Turn))
	return sb.String()
}

// Window is four cells in a straight line
type Window [4][2]int

// Windows holds every horizontal, vertical and diagonal run of four cells
var Windows = buildWindows()

func buildWindows() []Window {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	var ws []Window
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			for _, dir := range dirs {
				endR, endC := r+3*dir[0], c+3*dir[1]
				if endR < 0 || endR >= Rows || endC < 0 || endC >= Columns {
					continue
				}
				var w Window
				for i := 0; i < 4; i++ {
					w[i] = [2]int{r + i*dir[0], c + i*dir[1]}
				}
				ws = append(ws, w)
			}
		}
	}
	return ws
}

func dropWinner(d Drop) core.Side {
	for _, w := range Windows {
		a := d.Cells[w[0][0]][w[0][1]]
		if a == core.SideNone {
			continue
		}
		if a == d.Cells[w[1][0]][w[1][1]] && a == d.Cells[w[2][0]][w[2][1]] && a == d.Cells[w[3][0]][w[3][1]] {
			return a
		}
	}
	return core.SideNone
}
