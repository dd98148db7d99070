// Package main implements an interactive terminal client for playing against
// the cortex server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"cortex/internal/client/api"
	"cortex/internal/client/commands"
	"cortex/internal/client/display"
)

func main() {
	_ = godotenv.Load()

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("CORTEX_URL"); v != "" {
		defaultURL = v
	}
	apiURL := flag.String("url", defaultURL, "Server API base URL")
	flag.Parse()

	s := &commands.Session{
		Client: api.New(*apiURL),
		Out:    os.Stdout,
	}
	registry := commands.NewRegistry(s)

	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("cortex"),
		HistoryFile:     ".cortex_history",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	// Key entry goes through the terminal directly so it never lands in history
	s.ReadSecret = func(prompt string) (string, error) {
		fmt.Fprint(rl.Stdout(), prompt)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(rl.Stdout())
		return string(b), err
	}

	fmt.Printf("%sCortex Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.Client.BaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands, 'new tictactoe' to start\n\n")

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		// Check for verbose flag
		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		if registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *commands.Session) string {
	if s.Game == nil {
		return display.Prompt("cortex")
	}
	g := s.Game
	base := fmt.Sprintf("cortex %s[%s%s %s L%d%s]", display.Yellow, display.Reset, g.Game, g.GameID[:8], g.Level, display.Yellow)
	switch g.State {
	case "ongoing", "pending":
		base += " - " + display.SideName(g.Turn) + display.Yellow
	default:
		base += " - " + display.Outcome(g.State) + display.Yellow
	}
	return display.Prompt(base)
}
