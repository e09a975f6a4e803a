package controller

import (
	"errors"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrMalformedPosition):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrGameFull):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrInvalidTurn),
		errors.Is(err, model.ErrWrongPiece),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrMustCapture),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNotEditable):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
