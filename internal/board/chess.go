// FILE: internal/board/chess.go
package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/notnil/chess"

	"cortex/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// ChessMove is a move in UCI long algebraic form, e.g. "e2e4" or "e7e8q"
type ChessMove string

// ChessPosition wraps a rules-engine game. Values are never mutated after
// construction; Apply works on a clone.
type ChessPosition struct {
	game *chess.Game
}

func NewChessPosition() ChessPosition {
	return ChessPosition{game: chess.NewGame()}
}

// ChessFromFEN builds a position from a FEN string
func ChessFromFEN(fen string) (ChessPosition, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return ChessPosition{}, fmt.Errorf("invalid FEN: %w", err)
	}
	return ChessPosition{game: chess.NewGame(opt)}, nil
}

func (p ChessPosition) FEN() string {
	return p.game.FEN()
}

// InCheck reports whether the side to move is in check
func (p ChessPosition) InCheck() bool {
	moves := p.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

// History returns the moves played so far in SAN
func (p ChessPosition) History() []string {
	moves := p.game.Moves()
	positions := p.game.Positions()
	out := make([]string, 0, len(moves))
	for i, m := range moves {
		out = append(out, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}
	return out
}

// Method names how a finished game ended, e.g. "Checkmate"
func (p ChessPosition) Method() string {
	return p.game.Method().String()
}

// Chess is the board adapter backed by github.com/notnil/chess
type Chess struct{}

func (Chess) LegalMoves(p ChessPosition) []ChessMove {
	if p.game.Outcome() != chess.NoOutcome {
		return nil
	}
	valid := p.game.ValidMoves()
	moves := make([]ChessMove, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, ChessMove(m.String()))
	}
	return moves
}

func (Chess) Apply(p ChessPosition, m ChessMove) (ChessPosition, error) {
	if p.game.Outcome() != chess.NoOutcome {
		return p, ErrGameOver
	}
	mv, err := chess.UCINotation{}.Decode(p.game.Position(), string(m))
	if err != nil {
		return p, fmt.Errorf("%w: %q: %v", ErrIllegalMove, m, err)
	}
	next := p.game.Clone()
	if err := next.Move(mv); err != nil {
		return p, fmt.Errorf("%w: %q: %v", ErrIllegalMove, m, err)
	}
	// Repetition and fifty-move draws are claimed automatically
	for _, method := range next.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = next.Draw(method)
			break
		}
	}
	return ChessPosition{game: next}, nil
}

func (Chess) Status(p ChessPosition) core.Outcome {
	switch p.game.Outcome() {
	case chess.WhiteWon:
		return core.Win(core.SideFirst)
	case chess.BlackWon:
		return core.Win(core.SideSecond)
	case chess.Draw:
		return core.Draw()
	default:
		return core.Ongoing()
	}
}

func (Chess) SideToMove(p ChessPosition) core.Side {
	if p.game.Position().Turn() == chess.White {
		return core.SideFirst
	}
	return core.SideSecond
}

// ParseMove accepts SAN ("Nf3", "O-O", "exd8=Q+") or UCI ("g1f3")
func (a Chess) ParseMove(p ChessPosition, text string) (ChessMove, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty move", ErrIllegalMove)
	}
	pos := p.game.Position()
	legal := a.LegalMoves(p)

	if mv, err := (chess.AlgebraicNotation{}).Decode(pos, text); err == nil {
		if m := ChessMove(mv.String()); slices.Contains(legal, m) {
			return m, nil
		}
	}
	if mv, err := (chess.UCINotation{}).Decode(pos, strings.ToLower(text)); err == nil {
		if m := ChessMove(mv.String()); slices.Contains(legal, m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrIllegalMove, text)
}

// Format renders a move in SAN relative to the position it is played from
func (Chess) Format(p ChessPosition, m ChessMove) string {
	mv, err := chess.UCINotation{}.Decode(p.game.Position(), string(m))
	if err != nil {
		return string(m)
	}
	return chess.AlgebraicNotation{}.Encode(p.game.Position(), mv)
}

// Render draws the board from white's side with FEN piece letters
func (Chess) Render(p ChessPosition) string {
	placement := strings.Fields(p.game.FEN())[0]
	ranks := strings.Split(placement, "/")

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r, rank := range ranks {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				sb.WriteString(strings.Repeat(". ", int(ch-'0')))
			} else {
				sb.WriteString(fmt.Sprintf("%c ", ch))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

func (Chess) Notation(p ChessPosition) string {
	return p.game.FEN()
}
