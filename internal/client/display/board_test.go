package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBoardColorsSides(t *testing.T) {
	tests := []struct {
		game  string
		board string
		human string
		comp  string
	}{
		{"tictactoe", " X | 1 | O ", "X", "O"},
		{"connect4", "| . R Y . . . . |\n  0 1 2 3 4 5 6", "R", "Y"},
		{"chess", "  a b c d e f g h\n8 r n b q k b n r  8", "", "r"},
	}
	for _, tt := range tests {
		t.Run(tt.game, func(t *testing.T) {
			var buf bytes.Buffer
			RenderBoard(&buf, tt.game, tt.board)
			got := buf.String()
			if tt.human != "" && !strings.Contains(got, Blue+tt.human+Reset) {
				t.Errorf("human mark not blue: %q", got)
			}
			if !strings.Contains(got, Red+tt.comp+Reset) {
				t.Errorf("computer mark not red: %q", got)
			}
		})
	}
}

func TestRenderBoardChessFiles(t *testing.T) {
	var buf bytes.Buffer
	RenderBoard(&buf, "chess", "  a b c d e f g h")
	if !strings.Contains(buf.String(), Cyan+"a"+Reset) {
		t.Fatalf("file letters should be cyan: %q", buf.String())
	}
}
