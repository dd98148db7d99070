// FILE: internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard colors the server's ASCII board for the given game.
// The human's marks are blue, the computer's red.
func RenderBoard(w io.Writer, game, board string) {
	for _, line := range strings.Split(board, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var sb strings.Builder
		for _, ch := range line {
			sb.WriteString(colorCell(game, line, ch))
		}
		fmt.Fprintln(w, sb.String())
	}
}

func colorCell(game, line string, ch rune) string {
	s := string(ch)
	switch game {
	case "tictactoe":
		switch ch {
		case 'X':
			return Paint(Blue, s)
		case 'O':
			return Paint(Red, s)
		}
		if ch >= '0' && ch <= '8' {
			return Paint(Cyan, s)
		}
	case "connect4":
		switch {
		case ch == 'R':
			return Paint(Blue, s)
		case ch == 'Y':
			return Paint(Red, s)
		case ch >= '0' && ch <= '6' && !strings.Contains(line, "|"):
			return Paint(Cyan, s)
		}
	case "chess":
		fileLine := strings.HasPrefix(strings.TrimSpace(line), "a b")
		switch {
		case fileLine && ch >= 'a' && ch <= 'h':
			return Paint(Cyan, s)
		case ch >= '1' && ch <= '8':
			return Paint(Cyan, s)
		case ch >= 'A' && ch <= 'Z':
			return Paint(Blue, s)
		case ch >= 'a' && ch <= 'z':
			return Paint(Red, s)
		}
	}
	return s
}

// SideName names a side from the human's point of view
func SideName(side string) string {
	switch side {
	case "first":
		return Paint(Blue, "You")
	case "second":
		return Paint(Red, "Computer")
	default:
		return side
	}
}

// Outcome describes a finished or running game state
func Outcome(state string) string {
	switch state {
	case "first_wins":
		return Paint(Green, "You win!")
	case "second_wins":
		return Paint(Red, "Computer wins")
	case "draw":
		return Paint(Yellow, "Draw")
	case "pending":
		return Paint(Magenta, "Computer is thinking...")
	default:
		return state
	}
}
