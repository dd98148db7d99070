package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"cortex/internal/core"
	"cortex/internal/oracle"
	"cortex/internal/storage"
)

// out is where command output goes; tests replace it
var out io.Writer = os.Stdout

// Run is the entry point for the db maintenance commands
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, progress, settings")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "progress":
		return runProgress(args[1:])
	case "settings":
		return runSettings(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag plus any extra flags registered on fs
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Fprintf(out, "Database initialized at: %s\n", fs.Lookup("path").Value)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	fmt.Fprintf(out, "Database deleted: %s\n", fs.Lookup("path").Value)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	kind := fs.String("game", "", "Game kind to filter: tictactoe, connect4, chess (optional, * for all)")
	withMoves := fs.Bool("moves", false, "List the moves of each game")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *kind)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tGame\tLevel\tTier\tResult\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			g.GameID[:8]+"...",
			g.GameKind,
			g.Level,
			g.Tier,
			g.Result,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
		if !*withMoves {
			continue
		}
		moves, err := store.QueryMoves(g.GameID)
		if err != nil {
			return fmt.Errorf("query moves: %w", err)
		}
		for _, m := range moves {
			fmt.Fprintf(w, "\t%d.\t%s\t%s\t%s\t\n", m.MoveNumber, m.MoveText, m.Side, m.Source)
		}
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func runProgress(args []string) error {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	reset := fs.Bool("reset", false, "Reset progress back to level 1")
	game := fs.String("game", "", "Limit -reset to one game: tictactoe, connect4 or chess")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *game != "" && !*reset {
		return fmt.Errorf("-game requires -reset")
	}
	if *reset {
		if *game != "" && !core.GameKind(*game).Valid() {
			return fmt.Errorf("unknown game: %s", *game)
		}
		if err := store.ResetProgress(*game); err != nil {
			return err
		}
		scope := *game
		if scope == "" {
			scope = "all games"
		}
		fmt.Fprintf(out, "Progress reset: %s\n", scope)
	}

	progress, err := store.LoadProgress()
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if len(progress) == 0 {
		fmt.Fprintln(out, "No progress recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game\tLevel\tMatches")
	for _, kind := range []string{"tictactoe", "connect4", "chess"} {
		if p, ok := progress[kind]; ok {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p.GameKind, p.Level, p.MatchesPlayed)
		}
	}
	return w.Flush()
}

// runSettings stores the oracle provider and API key. Without -key and with
// -prompt the key is read from the terminal without echo.
func runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	provider := fs.String("provider", "", "Oracle provider: gemini or openai (optional)")
	key := fs.String("key", "", "Oracle API key (optional)")
	prompt := fs.Bool("prompt", false, "Read the API key interactively")
	clearKey := fs.Bool("clear-key", false, "Remove the stored API key")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *key != "" && (*prompt || *clearKey) {
		return fmt.Errorf("cannot combine -key with -prompt or -clear-key")
	}

	if *prompt {
		fmt.Fprint(out, "Enter API key: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		*key = strings.TrimSpace(string(b))
		if *key == "" {
			return fmt.Errorf("empty API key")
		}
	}

	if *provider != "" {
		p, err := oracle.ParseProvider(*provider)
		if err != nil {
			return err
		}
		if err := store.SetSetting(storage.SettingProvider, p.String()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Provider set to %s\n", p)
	}

	switch {
	case *clearKey:
		if err := store.SetSetting(storage.SettingAPIKey, ""); err != nil {
			return err
		}
		fmt.Fprintln(out, "API key cleared")
	case *key != "":
		if err := store.SetSetting(storage.SettingAPIKey, *key); err != nil {
			return err
		}
		fmt.Fprintln(out, "API key stored")
	}

	current, _, err := store.GetSetting(storage.SettingProvider)
	if err != nil {
		return err
	}
	stored, _, err := store.GetSetting(storage.SettingAPIKey)
	if err != nil {
		return err
	}
	if current == "" {
		current = oracle.ProviderGemini.String()
	}
	fmt.Fprintf(out, "provider=%s key=%s\n", current, maskKey(stored))
	return nil
}

func maskKey(k string) string {
	switch {
	case k == "":
		return "(none)"
	case len(k) <= 4:
		return "****"
	default:
		return "****" + k[len(k)-4:]
	}
}
