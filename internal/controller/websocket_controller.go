package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one game socket. After registration every write
// goes through the game's queue for this player, so replies and state
// updates never race.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Locals(middleware.LocalGameID).(string)
	playerID := c.Locals(middleware.LocalPlayerID).(string)
	logger := log.With().Str("game_id", gameID).Str("player_id", playerID).Logger()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		if errors.Is(err, model.ErrAlreadyConnected) {
			c.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
			)
		} else {
			c.WriteJSON(ws.Error(err.Error()))
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	send := func(msg ws.Message) {
		if err := wsc.gameService.Send(gameID, playerID, msg); err != nil {
			logger.Debug().Err(err).Msg("reply dropped")
		}
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("read error")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("parse error")
			send(ws.Error("malformed message"))
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			logger.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			send(ws.Error(err.Error()))
			continue
		}
		if reply != nil {
			send(*reply)
		}
	}
}

// handleMessage dispatches one client message. State updates reach the client
// through the game's broadcast; only selections and hints are answered
// directly.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeSelect:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return nil, err
		}
		selection, err := wsc.gameService.HandleSelect(gameID, playerID, pos)
		if err != nil {
			return nil, err
		}
		return reply(ws.MessageTypeSelection, selection)

	case ws.MessageTypeHint:
		move, ok, err := wsc.gameService.Hint(context.Background(), gameID, playerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return reply(ws.MessageTypeHint, map[string]any{"skip": true})
		}
		return reply(ws.MessageTypeHint, map[string]any{"skip": false, "move": move})

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking waits until the player is matched and sends the game id.
// A client that hangs up first leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals(middleware.LocalPlayerID).(string)
	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		c.WriteJSON(ws.Error(err.Error()))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID)

	// clients send nothing here; a read only returns when the socket closes
	gone := make(chan struct{})
	defer func() {
		c.Close()
		<-gone
	}()
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			log.Debug().Err(err).Str("player_id", playerID).Msg("failed to send match event")
		}
	case <-gone:
		log.Debug().Str("player_id", playerID).Msg("left matchmaking")
	}
}

func reply(t ws.MessageType, v any) (*ws.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &ws.Message{Type: t, Payload: payload}, nil
}
