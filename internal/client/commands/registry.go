// FILE: internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cortex/internal/client/api"
	"cortex/internal/client/display"
	"cortex/internal/core"
)

// errExit asks the REPL to stop
var errExit = errors.New("exit")

// Session is the client state shared by all commands
type Session struct {
	Client  *api.Client
	Out     io.Writer
	Verbose bool

	// ReadSecret reads a line without echo; nil disables interactive key entry
	ReadSecret func(prompt string) (string, error)

	Game *core.GameResponse // Current game, nil when none
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// currentGame returns the current game ID or an error telling the user how to get one
func (s *Session) currentGame() (string, error) {
	if s.Game == nil {
		return "", fmt.Errorf("no current game, use 'new <game>' or 'join <gameId>'")
	}
	return s.Game.GameID, nil
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Group       string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	commands map[string]*Command
	ordered  []*Command
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerOracleCommands()
	r.registerUtilCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Group:       groupUtil,
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Group:       groupUtil,
		Description: "Exit the client",
		Usage:       "exit",
		Handler: func(*Session, []string) error {
			return errExit
		},
	})

	return r
}

const (
	groupGame   = "Game Commands"
	groupOracle = "Oracle Commands"
	groupUtil   = "Utility Commands"
)

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
	r.ordered = append(r.ordered, cmd)
}

// Execute runs one input line and reports whether the client should exit
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		r.session.printf("%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		r.session.printf("Type 'help' for available commands\n")
		return false
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, errExit) {
		r.session.printf("%sGoodbye!%s\n", display.Cyan, display.Reset)
		return true
	}
	if err != nil {
		r.session.printf("%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return false
}

// Names returns every command name and short name, for completion
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%sAvailable Commands:%s\n", display.Cyan, display.Reset)
	for _, group := range []string{groupGame, groupOracle, groupUtil} {
		s.printf("\n%s%s:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range r.ordered {
			if cmd.Group != group {
				continue
			}
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			s.printf("  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	s.printf("\nType 'help <command>' for detailed usage\n")
	s.printf("Add '-v' to any command for verbose output\n")
	return nil
}
