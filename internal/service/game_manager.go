// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/ai"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type ManagerOptions struct {
	Searcher            *ai.Searcher
	AITimeout           time.Duration
	MatchmakingInterval time.Duration
}

type GameManager struct {
	games            map[string]*model.Game
	controllers      map[string]FieldController
	queue            *model.Queue
	matchingChannels map[string]chan string
	searcher         *ai.Searcher
	aiTimeout        time.Duration
	aiRuns           sync.WaitGroup
	stop             chan struct{}
	stopOnce         sync.Once
	mu               sync.RWMutex
}

func NewGameManager(opts ManagerOptions) *GameManager {
	if opts.Searcher == nil {
		opts.Searcher = ai.NewSearcher()
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = 10 * time.Second
	}
	if opts.MatchmakingInterval <= 0 {
		opts.MatchmakingInterval = time.Second
	}
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		controllers:      make(map[string]FieldController),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		searcher:         opts.Searcher,
		aiTimeout:        opts.AITimeout,
		stop:             make(chan struct{}),
	}

	go gm.processMatchmaking(opts.MatchmakingInterval)

	return gm
}

// Close stops matchmaking and waits for running AI turns.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
	gm.aiRuns.Wait()
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debug().Str("player_id", playerID).Msg("registering matchmaking channel")

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// the channel's creator closes it
	delete(gm.matchingChannels, playerID)
	gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for gm.queue.Size() >= 2 {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, nil, model.WithMode(model.ModeTwoPlayers))
		p1Color, err := game.AddPlayer(player1)
		if err != nil {
			log.Error().Err(err).Str("player_id", player1).Msg("matchmaking: add player")
			continue
		}
		p2Color, err := game.AddPlayer(player2)
		if err != nil {
			log.Error().Err(err).Str("player_id", player2).Msg("matchmaking: add player")
			continue
		}
		gm.games[gameID] = game
		gm.controllers[gameID] = newFieldController(game)

		sendEventAndCleanup := func(playerID string, event MatchFoundEvent) bool {
			ch, ok := gm.matchingChannels[playerID]
			if !ok {
				return false
			}
			select {
			case ch <- mustJSON(event):
				delete(gm.matchingChannels, playerID)
				close(ch)
				return true
			default:
				return false
			}
		}

		sent1 := sendEventAndCleanup(player1, MatchFoundEvent{GameID: gameID, Color: p1Color})
		sent2 := sendEventAndCleanup(player2, MatchFoundEvent{GameID: gameID, Color: p2Color})
		if !sent1 || !sent2 {
			log.Warn().Str("game_id", gameID).Msg("failed to notify all players of match")
		}
		log.Info().Str("game_id", gameID).Str("white", player1).Str("black", player2).Msg("match found")
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// CreateGame registers a new game. A nil board means the starting position.
func (gm *GameManager) CreateGame(gameID string, mode model.Mode, board *model.Board) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown game mode %q", mode)
	}
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	game := model.NewGame(gameID, board, model.WithMode(mode))
	gm.games[gameID] = game
	gm.controllers[gameID] = newFieldController(game)
	log.Info().Str("game_id", gameID).Str("mode", string(mode)).Msg("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) controller(gameID string) (*model.Game, FieldController, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, nil, model.ErrGameNotFound
	}
	return game, gm.controllers[gameID], nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

// QueuedPlayers is the number of players waiting for a match.
func (gm *GameManager) QueuedPlayers() int {
	return gm.queue.Size()
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("matchmaking join rejected")
		return err
	}
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove routes a move request through the game's field controller and
// lets the AI answer in single player games.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, fc, err := gm.controller(gameID)
	if err != nil {
		return err
	}
	if err := fc.OnMoveRequested(playerID, move.From, move.To); err != nil {
		return err
	}
	gm.scheduleAI(game)
	return nil
}

// ActivateField forwards a field click to the game's field controller.
func (gm *GameManager) ActivateField(gameID string, playerID string, pos model.Position) (Selection, error) {
	game, fc, err := gm.controller(gameID)
	if err != nil {
		return Selection{}, err
	}
	selection, err := fc.OnFieldActivated(playerID, pos)
	if err != nil {
		return selection, err
	}
	if selection.Moved {
		gm.scheduleAI(game)
	}
	return selection, nil
}

// Hint searches the best move for the side to move. ok is false when that
// side has nothing to play.
func (gm *GameManager) Hint(ctx context.Context, gameID string, playerID string) (ai.Candidate, bool, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return ai.Candidate{}, false, err
	}
	player, err := game.PlayerByID(playerID)
	if err != nil {
		return ai.Candidate{}, false, err
	}
	if player != game.CurrentPlayer() {
		return ai.Candidate{}, false, model.ErrInvalidTurn
	}

	ctx, cancel := context.WithTimeout(ctx, gm.aiTimeout)
	defer cancel()
	candidates, err := gm.search(ctx, game, player.Color)
	if err != nil || len(candidates) == 0 {
		return ai.Candidate{}, false, err
	}
	return gm.searcher.Choose(candidates), true, nil
}

func (gm *GameManager) search(ctx context.Context, game *model.Game, color model.Color) ([]ai.Candidate, error) {
	board := game.Board()
	if from, ok := game.Continuing(); ok {
		candidates, _, err := gm.searcher.BestContinuation(ctx, board, color, color.Opponent(), from)
		return candidates, err
	}
	candidates, _, err := gm.searcher.BestMoves(ctx, board, color, color.Opponent())
	return candidates, err
}

func (gm *GameManager) ExportPosition(gameID string) ([]byte, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return model.SaveBoard(game.Board())
}

func (gm *GameManager) scheduleAI(game *model.Game) {
	if game.Mode() != model.ModeOnePlayer || !game.CurrentPlayer().IsAI {
		return
	}
	gm.aiRuns.Add(1)
	go func() {
		defer gm.aiRuns.Done()
		gm.playAI(game)
	}()
}

// playAI moves for the AI seat until the turn passes back or the game ends.
func (gm *GameManager) playAI(game *model.Game) {
	ctx, cancel := context.WithTimeout(context.Background(), gm.aiTimeout)
	defer cancel()

	for {
		player := game.CurrentPlayer()
		if !player.IsAI {
			return
		}
		if _, over := game.Winner(); over {
			return
		}

		candidates, err := gm.search(ctx, game, player.Color)
		if err != nil {
			log.Warn().Err(err).Str("game_id", game.ID).Msg("ai search aborted, playing any legal move")
			board := game.Board()
			var from *model.Position
			if pos, ok := game.Continuing(); ok {
				from = &pos
			}
			candidates = ai.Moves(board, player.Color, from)
		}
		if len(candidates) == 0 {
			log.Info().Str("game_id", game.ID).Msg("ai has no move to play")
			return
		}

		choice := gm.searcher.Choose(candidates)
		if _, err := game.MoveAt(player, choice.From, choice.To); err != nil {
			log.Error().Err(err).Str("game_id", game.ID).Msg("ai move rejected")
			return
		}
		log.Debug().
			Str("game_id", game.ID).
			Stringer("from", choice.From).
			Stringer("to", choice.To).
			Msg("ai moved")
	}
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

// Send queues msg on playerID's socket for gameID, ordered with the game's
// state broadcasts.
func (gm *GameManager) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
