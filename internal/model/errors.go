package model

import "errors"

var (
	ErrInvalidTurn       = errors.New("not your turn")
	ErrWrongPiece        = errors.New("piece does not belong to player")
	ErrIllegalMove       = errors.New("illegal move")
	ErrMustCapture       = errors.New("capture is mandatory")
	ErrMalformedPosition = errors.New("malformed position")
	ErrGameOver          = errors.New("game is over")
	ErrGameFull          = errors.New("game is full")
	ErrGameNotFound      = errors.New("game not found")
	ErrNotInGame         = errors.New("player not in game")
	ErrNotEditable       = errors.New("board editing is disabled for this game")
	ErrAlreadyConnected  = errors.New("player already connected")
)
