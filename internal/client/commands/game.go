// FILE: internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"cortex/internal/client/display"
	"cortex/internal/core"
)

// maxPolls bounds how many long-polls the client makes for one computer turn
const maxPolls = 4

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Group:       groupGame,
		Description: "Start a game against the computer",
		Usage:       "new <tictactoe|connect4|chess> [level 1-5]",
		Handler:     newGameHandler,
	})
	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Group:       groupGame,
		Description: "Switch to an existing game",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})
	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Group:       groupGame,
		Description: "Play a move (cell, column, SAN or UCI)",
		Usage:       "move <move>",
		Handler:     moveHandler,
	})
	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Group:       groupGame,
		Description: "Take back moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})
	r.Register(&Command{
		Name:        "reset",
		ShortName:   "r",
		Group:       groupGame,
		Description: "Restart the current game",
		Usage:       "reset",
		Handler:     resetHandler,
	})
	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Group:       groupGame,
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})
	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Group:       groupGame,
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})
	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Group:       groupGame,
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})
	r.Register(&Command{
		Name:        "wait",
		ShortName:   "w",
		Group:       groupGame,
		Description: "Wait for the computer to move",
		Usage:       "wait",
		Handler:     waitHandler,
	})
}

func newGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: new <tictactoe|connect4|chess> [level]")
	}
	kind := strings.ToLower(args[0])
	switch kind {
	case "ttt":
		kind = string(core.GameTicTacToe)
	case "c4":
		kind = string(core.GameConnect4)
	}

	level := 0
	if len(args) > 1 {
		var err error
		if level, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid level: %s", args[1])
		}
	}

	resp, err := s.Client.CreateGame(kind, level)
	if err != nil {
		return err
	}
	s.Game = resp

	s.printf("%sGame created: %s (%s, level %d)%s\n", display.Green, resp.GameID, resp.Game, resp.Level, display.Reset)
	return showBoardHandler(s, nil)
}

func joinGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}
	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.Game = resp

	s.printf("%sJoined game: %s%s\n", display.Green, resp.GameID, display.Reset)
	s.printf("Game: %s | Level: %d | State: %s | Moves: %d\n", resp.Game, resp.Level, resp.State, len(resp.Moves))
	return nil
}

func moveHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <move>")
	}
	gameID, err := s.currentGame()
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, args[0])
	if err != nil {
		return err
	}
	s.Game = resp
	s.printf("%sYou played: %s%s\n", display.Green, args[0], display.Reset)

	if resp.State == core.StatePending.String() {
		if err := awaitComputer(s); err != nil {
			return err
		}
	}
	return showBoardHandler(s, nil)
}

// awaitComputer long-polls until the computer's turn is over and reports its move
func awaitComputer(s *Session) error {
	status := display.Outcome(core.StatePending.String())
	if s.Game.Thinking != "" {
		status = display.Paint(display.Magenta, s.Game.Thinking)
	}
	s.printf("%s\n", status)
	for i := 0; i < maxPolls; i++ {
		resp, err := s.Client.GetGameWithPoll(s.Game.GameID, len(s.Game.Moves))
		if err != nil {
			return err
		}
		s.Game = resp
		if resp.State != core.StatePending.String() {
			printComputerMove(s, resp.LastMove)
			return nil
		}
	}
	return fmt.Errorf("computer is still thinking, use 'wait' to keep waiting")
}

func printComputerMove(s *Session, m *core.MoveInfo) {
	if m == nil || m.Side != core.ComputerSide.String() {
		return
	}
	s.printf("%sComputer played: %s%s", display.Magenta, m.Move, display.Reset)
	if m.Source != "" {
		s.printf(" [%s]", m.Source)
	}
	if m.Depth > 0 {
		s.printf(" (depth %d, score %d)", m.Depth, m.Score)
	}
	s.printf("\n")
	if m.Status != "" {
		s.printf("%s%s%s\n", display.Yellow, m.Status, display.Reset)
	}
}

func undoHandler(s *Session, args []string) error {
	gameID, err := s.currentGame()
	if err != nil {
		return err
	}

	count := 2 // Your move and the computer's reply
	if len(args) > 0 {
		if count, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	s.Game = resp
	s.printf("%sUndid %d move(s)%s\n", display.Green, count, display.Reset)

	// An odd count leaves the computer to move
	if resp.State == core.StatePending.String() {
		if err := awaitComputer(s); err != nil {
			return err
		}
	}
	return showBoardHandler(s, nil)
}

func resetHandler(s *Session, args []string) error {
	gameID, err := s.currentGame()
	if err != nil {
		return err
	}
	resp, err := s.Client.ResetGame(gameID)
	if err != nil {
		return err
	}
	s.Game = resp
	s.printf("%sGame reset (level %d)%s\n", display.Green, resp.Level, display.Reset)
	return showBoardHandler(s, nil)
}

func showBoardHandler(s *Session, args []string) error {
	gameID, err := s.currentGame()
	if err != nil {
		return err
	}

	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}
	s.Game = game

	s.printf("\n")
	if game.Persona != "" {
		s.printf("%s%s%s\n", display.Magenta, game.Persona, display.Reset)
	}
	display.RenderBoard(s.Out, game.Game, board.Board)
	s.printf("\n%s\n", board.Notation)

	if game.State != core.StateOngoing.String() && game.State != core.StatePending.String() {
		s.printf("%s%s%s", display.Bold, display.Outcome(game.State), display.Reset)
		if game.EndReason != "" {
			s.printf(" (%s)", game.EndReason)
		}
		s.printf("\n")
	} else {
		s.printf("Turn: %s | Level: %d | Moves: %d\n", display.SideName(game.Turn), game.Level, len(game.Moves))
		if game.InCheck {
			s.printf("%sCheck!%s\n", display.Red, display.Reset)
		}
	}

	if len(game.Moves) > 0 {
		s.printf("History: %s\n", formatHistory(game.Game, game.Moves))
	}
	return nil
}

// formatHistory numbers chess moves in pairs and lists the rest plainly
func formatHistory(game string, moves []string) string {
	if game != string(core.GameChess) {
		return strings.Join(moves, " ")
	}
	var sb strings.Builder
	for i, move := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d.", i/2+1)
		}
		sb.WriteString(move)
	}
	return sb.String()
}

func gameStateHandler(s *Session, args []string) error {
	gameID, err := s.currentGame()
	if err != nil {
		return err
	}
	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	s.Game = resp

	s.printf("%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Out, resp)
	return nil
}

func deleteGameHandler(s *Session, args []string) error {
	var gameID string
	if len(args) > 0 {
		gameID = args[0]
	} else {
		var err error
		if gameID, err = s.currentGame(); err != nil {
			return err
		}
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if s.Game != nil && s.Game.GameID == gameID {
		s.Game = nil
	}

	s.printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func waitHandler(s *Session, args []string) error {
	if _, err := s.currentGame(); err != nil {
		return err
	}
	if err := awaitComputer(s); err != nil {
		return err
	}
	return showBoardHandler(s, nil)
}
