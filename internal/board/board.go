// FILE: internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cortex/internal/core"
)

var (
	// ErrIllegalMove is returned when a move is not in the position's legal set
	ErrIllegalMove = errors.New("illegal move")
	// ErrGameOver is returned when applying a move to a terminal position
	ErrGameOver = errors.New("game is over")
)

// markSymbols maps a side to the character drawn for it in ASCII renderings
type markSymbols struct {
	first  byte
	second byte
	empty  byte
}

func (m markSymbols) symbol(s core.Side) byte {
	switch s {
	case core.SideFirst:
		return m.first
	case core.SideSecond:
		return m.second
	default:
		return m.empty
	}
}

// parseIndex reads a single integer move from human or oracle text
func parseIndex(text string, lo, hi int) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrIllegalMove, text)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d outside [%d, %d]", ErrIllegalMove, n, lo, hi)
	}
	return n, nil
}

func contains[M comparable](moves []M, m M) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}
