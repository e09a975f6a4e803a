package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/ai"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a game in mode. position, when not empty, is a saved
// board in the position file format.
func (gs *GameService) CreateGame(mode model.Mode, position []byte) (string, error) {
	var board *model.Board
	if len(position) > 0 {
		b, err := model.LoadBoard(position)
		if err != nil {
			return "", err
		}
		board = b
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.CreateGame(gameID, mode, board); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) HandleSelect(gameID string, playerID string, pos model.Position) (Selection, error) {
	return gs.gameManager.ActivateField(gameID, playerID, pos)
}

func (gs *GameService) Hint(ctx context.Context, gameID string, playerID string) (ai.Candidate, bool, error) {
	return gs.gameManager.Hint(ctx, gameID, playerID)
}

func (gs *GameService) ExportPosition(gameID string) ([]byte, error) {
	return gs.gameManager.ExportPosition(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) Send(gameID string, playerID string, msg ws.Message) error {
	return gs.gameManager.Send(gameID, playerID, msg)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
