package model

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeTwoPlayers Mode = "two_players"
	ModeOnePlayer  Mode = "one_player"
	ModeTraining   Mode = "training"
	ModeEditor     Mode = "editor"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeTwoPlayers, ModeOnePlayer, ModeTraining, ModeEditor:
		return true
	}
	return false
}

// Game owns one board, its two players and whose turn it is.
type Game struct {
	ID          string
	mu          sync.Mutex
	mode        Mode
	board       *Board
	white       *Player
	black       *Player
	current     *Player
	continuing  *Piece
	winner      Color
	history     []Ply
	lastMove    *WSMove
	connections *GameConnections
}

type GameState struct {
	Mode        Mode       `json:"mode"`
	Size        int        `json:"size"`
	Board       []Piece    `json:"board"`
	ToMove      Color      `json:"toMove"`
	Winner      *Color     `json:"winner"`
	Continuing  *Position  `json:"continuing"`
	Movable     []Position `json:"movable"`
	MoveHistory []Ply      `json:"moveHistory"`
	LastMove    *WSMove    `json:"lastMove"`
	Players     struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

type GameOption func(*Game)

func WithMode(mode Mode) GameOption {
	return func(g *Game) {
		g.mode = mode
	}
}

func NewGame(id string, board *Board, opts ...GameOption) *Game {
	if board == nil {
		board = NewStartingBoard()
	}
	g := &Game{
		ID:          id,
		mode:        ModeTwoPlayers,
		board:       board,
		white:       &Player{Color: White},
		black:       &Player{Color: Black},
		history:     make([]Ply, 0),
		connections: NewGameConnections(),
	}
	g.current = g.white
	for _, opt := range opts {
		opt(g)
	}
	if g.mode == ModeOnePlayer {
		g.black.ID = AIPlayerID
		g.black.IsAI = true
	}
	g.updateWinner()
	return g
}

func (g *Game) Mode() Mode {
	return g.mode
}

// AddPlayer seats playerID and returns its color. In training games one
// player takes both seats.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debug().Str("game_id", g.ID).Str("player_id", playerID).Msg("adding player")

	if g.isPlayerInGame(playerID) {
		return g.seatOf(playerID).Color, nil
	}
	if g.white.ID == "" {
		g.white.ID = playerID
		if g.mode == ModeTraining || g.mode == ModeEditor {
			g.black.ID = playerID
		}
		return White, nil
	}
	if g.black.ID == "" {
		g.black.ID = playerID
		return Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) seatOf(playerID string) *Player {
	if g.current.ID == playerID {
		return g.current
	}
	if g.white.ID == playerID {
		return g.white
	}
	if g.black.ID == playerID {
		return g.black
	}
	return nil
}

// PlayerByID returns the seat playerID acts through. When one player holds
// both seats, the seat to move is returned.
func (g *Game) PlayerByID(playerID string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID == "" {
		return nil, ErrNotInGame
	}
	if p := g.seatOf(playerID); p != nil {
		return p, nil
	}
	return nil, ErrNotInGame
}

func (g *Game) Player(color Color) *Player {
	if color == White {
		return g.white
	}
	return g.black
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return playerID != "" && (g.white.ID == playerID || g.black.ID == playerID)
}

func (g *Game) canSpectate() bool {
	return g.white.ID == "" || g.black.ID == ""
}

func (g *Game) CurrentPlayer() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.current
}

// Continuing returns the field of the piece that must keep capturing this
// turn, if any.
func (g *Game) Continuing() (Position, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.continuing == nil {
		return Position{}, false
	}
	return g.continuing.Position, true
}

func (g *Game) Winner() (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.winner, g.winner != ""
}

// Board returns a deep copy of the current position.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone()
}

// PieceAt returns the live piece on a field, for callers that need to pass a
// piece identity to Move.
func (g *Game) PieceAt(pos Position) *Piece {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.PieceAt(pos.X, pos.Y)
}

// AvailableFields lists the legal destinations of piece right now, honouring
// forced capture and an unfinished capture chain.
func (g *Game) AvailableFields(piece *Piece) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.availableFields(piece)
}

func (g *Game) availableFields(piece *Piece) []Position {
	if g.winner != "" || piece.Color != g.current.Color {
		return []Position{}
	}
	if g.continuing != nil {
		if piece != g.continuing {
			return []Position{}
		}
		return CaptureFields(g.board, piece)
	}
	return AvailableFields(g.board, piece)
}

// Move validates and plays one step of piece to (x, y) for player. The board
// is left untouched when an error is returned.
func (g *Game) Move(player *Player, piece *Piece, x, y int) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	move, err := g.move(player, piece, x, y)
	if err != nil {
		return move, err
	}
	g.broadcastState(g.getState())
	return move, nil
}

// MoveAt is Move addressed by fields instead of piece identity.
func (g *Game) MoveAt(player *Player, from, to Position) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.board.PieceAt(from.X, from.Y)
	if piece == nil {
		return Move{Type: MoveInvalid}, fmt.Errorf("%w: no piece at %s", ErrIllegalMove, from)
	}
	move, err := g.move(player, piece, to.X, to.Y)
	if err != nil {
		return move, err
	}
	g.broadcastState(g.getState())
	return move, nil
}

func (g *Game) move(player *Player, piece *Piece, x, y int) (Move, error) {
	invalid := Move{Type: MoveInvalid}
	if g.winner != "" {
		return invalid, ErrGameOver
	}
	if piece == nil {
		return invalid, fmt.Errorf("%w: no piece selected", ErrIllegalMove)
	}
	if player != g.current {
		return invalid, ErrInvalidTurn
	}
	if piece.Color != player.Color {
		return invalid, ErrWrongPiece
	}
	if !g.board.Contains(piece) {
		return invalid, fmt.Errorf("%w: piece is not on the board", ErrWrongPiece)
	}
	if g.continuing != nil && piece != g.continuing {
		return invalid, fmt.Errorf("%w: continue with the piece at %s", ErrMustCapture, g.continuing.Position)
	}

	move := Classify(g.board, piece, x, y)
	if move.Type == MoveInvalid {
		return move, fmt.Errorf("%w: %s to %s", ErrIllegalMove, piece.Position, Position{X: x, Y: y})
	}
	if !containsField(g.availableFields(piece), x, y) {
		return invalid, fmt.Errorf("%w: %s to %s is not allowed", ErrMustCapture, piece.Position, Position{X: x, Y: y})
	}

	from := piece.Position
	to := Position{X: x, Y: y}
	crowned := applyMove(g.board, piece, x, y, move)
	ply := newPly(player.Color, from, to, move, crowned)
	g.history = append(g.history, ply)
	g.lastMove = &WSMove{From: from, To: to}

	log.Debug().
		Str("game_id", g.ID).
		Str("color", string(player.Color)).
		Str("move", ply.Notation).
		Msg("move applied")

	switch {
	case move.Type == MoveSimple:
		g.endTurn()
	case crowned:
		player.Score++
		g.endTurn()
	default:
		player.Score++
		if len(fieldsOfType(g.board, piece, MoveCapture)) > 0 {
			g.continuing = piece
		} else {
			g.endTurn()
		}
	}
	g.updateWinner()
	return move, nil
}

func (g *Game) endTurn() {
	g.continuing = nil
	if g.current == g.white {
		g.current = g.black
	} else {
		g.current = g.white
	}
}

func (g *Game) updateWinner() {
	if g.mode == ModeEditor {
		return
	}
	if winner, ok := Winner(g.board, g.current.Color); ok {
		g.winner = winner
		log.Info().Str("game_id", g.ID).Str("winner", string(winner)).Msg("game over")
	}
}

// Edit runs fn against the live board. Only editor games allow it.
func (g *Game) Edit(fn func(board *Board) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mode != ModeEditor {
		return ErrNotEditable
	}
	scratch := g.board.Clone()
	if err := fn(scratch); err != nil {
		return err
	}
	g.board = scratch
	g.broadcastState(g.getState())
	return nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.getState()
}

func (g *Game) getState() GameState {
	state := GameState{
		Mode:        g.mode,
		Size:        g.board.Size,
		Board:       g.board.Snapshot(),
		ToMove:      g.current.Color,
		Movable:     []Position{},
		MoveHistory: append([]Ply(nil), g.history...),
	}
	if g.winner != "" {
		winner := g.winner
		state.Winner = &winner
	}
	if g.continuing != nil {
		pos := g.continuing.Position
		state.Continuing = &pos
	}
	if g.lastMove != nil {
		last := *g.lastMove
		state.LastMove = &last
	}
	if g.winner == "" && g.mode != ModeEditor {
		for _, p := range g.board.PiecesOf(g.current.Color) {
			if len(g.availableFields(p)) > 0 {
				state.Movable = append(state.Movable, p.Position)
			}
		}
	}
	state.Players.White = g.white.client()
	state.Players.Black = g.black.client()
	return state
}
