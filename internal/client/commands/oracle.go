// FILE: internal/client/commands/oracle.go
package commands

import (
	"fmt"
	"strings"

	"cortex/internal/client/display"
	"cortex/internal/core"
)

func (r *Registry) registerOracleCommands() {
	r.Register(&Command{
		Name:        "progress",
		ShortName:   "p",
		Group:       groupOracle,
		Description: "Show difficulty levels and oracle settings",
		Usage:       "progress [-reset [game]]",
		Handler:     progressHandler,
	})
	r.Register(&Command{
		Name:        "settings",
		ShortName:   "k",
		Group:       groupOracle,
		Description: "Choose the oracle provider and enter its API key",
		Usage:       "settings <gemini|openai> [-keep]",
		Handler:     settingsHandler,
	})
	r.Register(&Command{
		Name:        "chat",
		ShortName:   "t",
		Group:       groupOracle,
		Description: "Send a message to the oracle",
		Usage:       "chat <message>",
		Handler:     chatHandler,
	})
}

func progressHandler(s *Session, args []string) error {
	var (
		p   *core.ProgressResponse
		err error
	)
	if len(args) > 0 && args[0] == "-reset" {
		game := ""
		if len(args) > 1 {
			game = strings.ToLower(args[1])
		}
		if p, err = s.Client.ResetProgress(game); err != nil {
			return err
		}
		s.printf("%sProgress reset%s\n", display.Green, display.Reset)
	} else if p, err = s.Client.Progress(); err != nil {
		return err
	}

	s.printf("%sProgress:%s\n", display.Cyan, display.Reset)
	for _, game := range []string{"tictactoe", "connect4", "chess"} {
		s.printf("  %-10s level %d\n", game, p.Levels[game])
	}
	s.printf("  chess matches: %d (tier %d)\n", p.ChessMatches, p.ChessTier)

	key := display.Paint(display.Red, "not set")
	if p.HasAPIKey {
		key = display.Paint(display.Green, "set")
	}
	s.printf("%sOracle:%s %s, API key %s\n", display.Cyan, display.Reset, p.Provider, key)
	return nil
}

// settingsHandler switches provider and prompts for a key without echo.
// With -keep the stored key is left alone.
func settingsHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: settings <gemini|openai> [-keep]")
	}
	provider := strings.ToLower(args[0])
	keep := len(args) > 1 && args[1] == "-keep"

	var key string
	if !keep {
		if s.ReadSecret == nil {
			return fmt.Errorf("no terminal for key entry, use -keep or the server's db settings command")
		}
		var err error
		if key, err = s.ReadSecret("API key: "); err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = strings.TrimSpace(key)
	}

	if err := s.Client.UpdateSettings(provider, key); err != nil {
		return err
	}
	s.printf("%sOracle set to %s%s\n", display.Green, provider, display.Reset)
	return nil
}

func chatHandler(s *Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: chat <message>")
	}
	resp, err := s.Client.Chat(strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.printf("%s[%s]%s %s\n", display.Magenta, resp.Provider, display.Reset, resp.Reply)
	return nil
}
