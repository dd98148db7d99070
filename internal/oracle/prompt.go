// FILE: internal/oracle/prompt.go
package oracle

import (
	"fmt"
	"strings"
)

// Request is the chess position handed to the oracle
type Request struct {
	FEN     string
	History []string // SAN, oldest first
	Persona string   // Skill narrative
	Side    string   // "WHITE" or "BLACK"
}

func (r Request) Prompt() string {
	var sb strings.Builder
	sb.WriteString(r.Persona)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Current FEN: %s\n", r.FEN)
	fmt.Fprintf(&sb, "History: %s\n", strings.Join(r.History, " "))
	fmt.Fprintf(&sb, "You play as %s.\n", r.Side)
	sb.WriteString("Reply ONLY with the best move in Standard Algebraic Notation (SAN) or coordinate notation (e.g., e5, Nf3, e7e5). DO NOT EXPLAIN.")
	return sb.String()
}
