package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrColorTaken),
		errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, service.ErrGameOver),
		errors.Is(err, store.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotAPlayer),
		errors.Is(err, service.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, chess.ErrInvalidMove),
		errors.Is(err, chess.ErrInvalidPosition),
		errors.Is(err, service.ErrInvalidDepth):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
