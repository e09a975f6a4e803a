package controller

import (
	"encoding/json"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Mode     model.Mode      `json:"mode"`
	Position json.RawMessage `json:"position"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	req := createGameRequest{Mode: model.ModeTwoPlayers}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if !req.Mode.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown game mode",
		})
	}

	gameID, err := gc.gameService.CreateGame(req.Mode, req.Position)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Str("player_id", playerID).Msg("join failed")
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move",
		})
	}
	if err := gc.gameService.HandleMove(gameID, playerID, move); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) SelectField(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var pos model.Position
	if err := c.BodyParser(&pos); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid field",
		})
	}
	selection, err := gc.gameService.HandleSelect(gameID, playerID, pos)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(selection)
}

func (gc *GameController) Hint(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	move, ok, err := gc.gameService.Hint(c.UserContext(), gameID, playerID)
	if err != nil {
		return sendError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"skip": true})
	}
	return c.JSON(fiber.Map{
		"skip": false,
		"move": move,
	})
}

func (gc *GameController) ExportPosition(c *fiber.Ctx) error {
	data, err := gc.gameService.ExportPosition(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}
