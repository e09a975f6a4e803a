package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Locals copied onto the upgraded connection. The socket handler cannot read
// route params, only locals.
const (
	LocalGameID   = "wsGameID"
	LocalPlayerID = "wsPlayerID"
)

// WebSocketUpgrade lets only websocket handshakes through to the socket
// handlers. requireGame rejects routes without a gameId param.
func WebSocketUpgrade(requireGame bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if requireGame && gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		playerID, ok := c.Locals("playerID").(string)
		if !ok || playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		c.Locals(LocalGameID, gameID)
		c.Locals(LocalPlayerID, playerID)
		return c.Next()
	}
}
