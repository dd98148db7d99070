// FILE: internal/transport/http/game_handler.go
package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cortex/internal/core"
	"cortex/internal/processor"
)

// gameID reads and checks the :gameId route parameter
func gameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	return id, isValidUUID(id)
}

func badGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true and the client's last known
// moveCount it long-polls until a move lands.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		return reply(c, h.proc.Execute(c.Context(), processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	m, err := h.svc.GetGame(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Nothing to wait for unless the client is current and the computer is thinking
	if len(m.Moves()) != moveCount || m.State() != core.StatePending {
		return reply(c, h.proc.Execute(c.Context(), processor.NewGetGameCommand(id)), fiber.StatusOK)
	}

	ctx := c.Context()
	notify, release, err := h.svc.WaitForMove(ctx, id, moveCount)
	if err != nil {
		return reply(c, h.proc.Execute(ctx, processor.NewGetGameCommand(id)), fiber.StatusOK)
	}
	defer release()

	select {
	case <-notify:
		return reply(c, h.proc.Execute(ctx, processor.NewGetGameCommand(id)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// MakeMove plays the human move; 202 means the computer's reply is queued
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewMakeMoveCommand(id, req)), fiber.StatusOK)
}

func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewResetGameCommand(id)), fiber.StatusOK)
}

func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return err
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewUndoMoveCommand(id, req)), fiber.StatusOK)
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewDeleteGameCommand(id)), fiber.StatusNoContent)
}

// GetBoard returns the text rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return badGameID(c)
	}
	return reply(c, h.proc.Execute(c.Context(), processor.NewGetBoardCommand(id)), fiber.StatusOK)
}
