// FILE: internal/processor/processor.go
package processor

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"

	"cortex/internal/board"
	"cortex/internal/core"
	"cortex/internal/game"
	"cortex/internal/oracle"
	"cortex/internal/service"
)

// Processor executes commands against the service and hands computer turns
// to the queue
type Processor struct {
	svc   *service.Service
	queue *TurnQueue
}

type Config struct {
	Workers   int
	TurnLimit time.Duration // Bounds one computer turn, oracle included
}

func New(svc *service.Service, cfg Config) *Processor {
	return &Processor{
		svc:   svc,
		queue: NewTurnQueue(cfg.Workers, cfg.TurnLimit),
	}
}

func (p *Processor) Execute(ctx context.Context, cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetProgress:
		return ProcessorResponse{Success: true, Data: p.svc.Progress()}
	case CmdResetProgress:
		return p.handleResetProgress(cmd)
	case CmdUpdateSettings:
		return p.handleUpdateSettings(cmd)
	case CmdChat:
		return p.handleChat(ctx, cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) isMoveSafe(move string) bool {
	for _, r := range move {
		if unicode.IsControl(r) {
			return false
		}
	}
	return strings.TrimSpace(move) != ""
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	m, err := p.svc.CreateGame(core.GameKind(args.Game), args.Level)
	if err != nil {
		return p.failure(err, core.ErrInvalidRequest)
	}

	return ProcessorResponse{Success: true, Data: p.buildGameResponse(m)}
}

// handleGetGame retrieves game state and resumes a computer turn that failed
func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	m, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}

	pending := p.resumeComputerTurn(m)
	return ProcessorResponse{Success: true, Pending: pending, Data: p.buildGameResponse(m)}
}

// handleMakeMove plays the human move and queues the computer's answer
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if !p.isMoveSafe(args.Move) {
		return p.errorResponse("invalid move format", core.ErrInvalidMove)
	}

	m, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}

	result, err := m.PlayHuman(args.Move)
	if err != nil {
		return p.failure(err, core.ErrInvalidMove)
	}

	pending := p.resumeComputerTurn(m)

	response := p.buildGameResponse(m)
	response.LastMove = moveInfo(result)
	return ProcessorResponse{Success: true, Pending: pending, Data: response}
}

func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	if err := p.svc.ResetGame(cmd.GameID); err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}
	m, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(m)}
}

// handleUndoMove reverts plies; if that leaves the computer to move its turn is queued
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok {
		args = req
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.failure(err, core.ErrInvalidRequest)
	}
	m, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}

	pending := p.resumeComputerTurn(m)
	return ProcessorResponse{Success: true, Pending: pending, Data: p.buildGameResponse(m)}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	m, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure(err, core.ErrGameNotFound)
	}
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Notation: m.Notation(),
			Board:    m.Render(),
		},
	}
}

func (p *Processor) handleResetProgress(cmd Command) ProcessorResponse {
	kind, _ := cmd.Args.(string)
	if err := p.svc.ResetProgress(core.GameKind(kind)); err != nil {
		return p.failure(err, core.ErrInvalidRequest)
	}
	return ProcessorResponse{Success: true, Data: p.svc.Progress()}
}

func (p *Processor) handleUpdateSettings(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SettingsRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if err := p.svc.UpdateSettings(args.Provider, args.APIKey); err != nil {
		return p.failure(err, core.ErrInvalidRequest)
	}
	return ProcessorResponse{Success: true, Data: p.svc.Progress()}
}

func (p *Processor) handleChat(ctx context.Context, cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ChatRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	reply, provider, err := p.svc.Chat(ctx, args.Message)
	if err != nil {
		return p.failure(err, core.ErrOracleUnavailable)
	}
	return ProcessorResponse{Success: true, Data: core.ChatResponse{Reply: reply, Provider: string(provider)}}
}

// resumeComputerTurn queues the computer's move when it is due and reports
// whether a turn is now pending
func (p *Processor) resumeComputerTurn(m game.Match) bool {
	if m.State() == core.StatePending {
		return true
	}
	if m.State() != core.StateOngoing || m.Turn() != core.ComputerSide {
		return false
	}

	ticket, err := m.BeginComputerTurn()
	if err != nil {
		// Lost a race with another request that already started the turn
		return errors.Is(err, game.ErrTurnPending)
	}

	task := TurnTask{
		GameID: m.ID(),
		Ticket: ticket,
		Callback: func(r TurnResult) {
			if r.Err != nil {
				return
			}
			log.Debug().
				Str("game", r.GameID).
				Str("move", r.Move.Move).
				Str("source", r.Move.Source).
				Str("state", r.Move.GameState.String()).
				Msg("Computer moved")
		},
	}
	if err := p.queue.Submit(task); err != nil {
		// Without a worker the session would stay pending
		log.Warn().Err(err).Str("game", m.ID()).Msg("Resolving computer turn inline")
		ctx, cancel := context.WithTimeout(context.Background(), p.queue.limit)
		defer cancel()
		if _, err := ticket.Resolve(ctx); err != nil {
			log.Error().Err(err).Str("game", m.ID()).Msg("Computer turn failed")
		}
		return false
	}
	return true
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(m game.Match) core.GameResponse {
	resp := core.GameResponse{
		GameID:    m.ID(),
		Game:      m.Kind().String(),
		Level:     m.Level(),
		Turn:      m.Turn().String(),
		State:     m.State().String(),
		Moves:     m.Moves(),
		Notation:  m.Notation(),
		InCheck:   m.InCheck(),
		EndReason: m.EndReason(),
	}
	if r := m.LastResult(); r != nil {
		resp.LastMove = moveInfo(*r)
	}
	if m.Kind() == core.GameChess {
		persona := p.svc.ChessPersona()
		resp.Persona = persona.Label
		if m.State() == core.StatePending {
			resp.Thinking = persona.Status
		}
	}
	return resp
}

func moveInfo(r game.MoveResult) *core.MoveInfo {
	return &core.MoveInfo{
		Move:   r.Move,
		Side:   r.Side.String(),
		Source: r.Source,
		Status: r.Status,
		Score:  r.Score,
		Depth:  r.Depth,
	}
}

// failure maps a domain error to an error code, using fallback when none matches
func (p *Processor) failure(err error, fallback string) ProcessorResponse {
	var (
		unavailable *oracle.UnavailableError
		exhausted   *oracle.ExhaustedError
		empty       *oracle.EmptyResponseError
	)
	code := fallback
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		code = core.ErrGameNotFound
	case errors.Is(err, service.ErrTooManyGames):
		code = core.ErrResourceLimit
	case errors.Is(err, game.ErrTurnPending):
		code = core.ErrTurnPending
	case errors.Is(err, game.ErrGameOver):
		code = core.ErrGameOver
	case errors.Is(err, game.ErrNotHumanTurn):
		code = core.ErrNotHumanTurn
	case errors.Is(err, board.ErrIllegalMove):
		code = core.ErrInvalidMove
	case errors.Is(err, oracle.ErrNotConfigured):
		code = core.ErrOracleNotConfigured
	case errors.As(err, &unavailable), errors.As(err, &exhausted), errors.As(err, &empty):
		code = core.ErrOracleUnavailable
	}
	return p.errorResponse(err.Error(), code)
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close drains the turn queue
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
