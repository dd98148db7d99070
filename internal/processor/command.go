// FILE: internal/processor/command.go
package processor

import (
	"cortex/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdResetGame
	CmdUndoMove
	CmdGetBoard
	CmdGetProgress
	CmdResetProgress
	CmdUpdateSettings
	CmdChat
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // Computer turn queued
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{Type: CmdCreateGame, Args: req}
}

func NewGetGameCommand(gameID string) Command {
	return Command{Type: CmdGetGame, GameID: gameID}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{Type: CmdMakeMove, GameID: gameID, Args: req}
}

func NewResetGameCommand(gameID string) Command {
	return Command{Type: CmdResetGame, GameID: gameID}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{Type: CmdUndoMove, GameID: gameID, Args: req}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{Type: CmdDeleteGame, GameID: gameID}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{Type: CmdGetBoard, GameID: gameID}
}

func NewGetProgressCommand() Command {
	return Command{Type: CmdGetProgress}
}

// NewResetProgressCommand resets one game's progress, or all of it when game is empty
func NewResetProgressCommand(game string) Command {
	return Command{Type: CmdResetProgress, Args: game}
}

func NewUpdateSettingsCommand(req core.SettingsRequest) Command {
	return Command{Type: CmdUpdateSettings, Args: req}
}

func NewChatCommand(req core.ChatRequest) Command {
	return Command{Type: CmdChat, Args: req}
}
