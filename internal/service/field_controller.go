package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// Selection is what a client should highlight after a field was activated.
type Selection struct {
	Selected *model.Position `json:"selected"`
	Fields   []model.Position `json:"fields"`
	Moved    bool             `json:"moved"`
}

// FieldController turns clicks and drags on the board into game actions. The
// implementation is picked once per game from its mode.
type FieldController interface {
	OnFieldActivated(playerID string, pos model.Position) (Selection, error)
	OnMoveRequested(playerID string, from, to model.Position) error
}

func newFieldController(game *model.Game) FieldController {
	if game.Mode() == model.ModeEditor {
		return &editorController{game: game}
	}
	return &playController{game: game, selected: make(map[string]model.Position)}
}

type playController struct {
	game     *model.Game
	mu       sync.Mutex
	selected map[string]model.Position
}

func (pc *playController) OnFieldActivated(playerID string, pos model.Position) (Selection, error) {
	player, err := pc.game.PlayerByID(playerID)
	if err != nil {
		return Selection{}, err
	}

	if piece := pc.game.PieceAt(pos); piece != nil && piece.Color == player.Color {
		return pc.selectPiece(playerID, piece, pos), nil
	}

	pc.mu.Lock()
	from, ok := pc.selected[playerID]
	delete(pc.selected, playerID)
	pc.mu.Unlock()
	if !ok {
		return Selection{Fields: []model.Position{}}, nil
	}

	if _, err := pc.game.MoveAt(player, from, pos); err != nil {
		return Selection{Fields: []model.Position{}}, err
	}
	selection := Selection{Fields: []model.Position{}, Moved: true}
	if cont, ok := pc.game.Continuing(); ok && pc.game.CurrentPlayer() == player {
		next := pc.selectPiece(playerID, pc.game.PieceAt(cont), cont)
		selection.Selected = next.Selected
		selection.Fields = next.Fields
	}
	return selection, nil
}

func (pc *playController) selectPiece(playerID string, piece *model.Piece, pos model.Position) Selection {
	pc.mu.Lock()
	pc.selected[playerID] = pos
	pc.mu.Unlock()
	return Selection{Selected: &pos, Fields: pc.game.AvailableFields(piece)}
}

func (pc *playController) OnMoveRequested(playerID string, from, to model.Position) error {
	player, err := pc.game.PlayerByID(playerID)
	if err != nil {
		return err
	}
	pc.mu.Lock()
	delete(pc.selected, playerID)
	pc.mu.Unlock()

	_, err = pc.game.MoveAt(player, from, to)
	return err
}

// editorController edits the position directly, without any rules.
type editorController struct {
	game *model.Game
}

// OnFieldActivated cycles the field through empty, white man, black man,
// white king, black king and back to empty.
func (ec *editorController) OnFieldActivated(playerID string, pos model.Position) (Selection, error) {
	if !ec.game.IsPlayerInGame(playerID) {
		return Selection{}, model.ErrNotInGame
	}
	err := ec.game.Edit(func(board *model.Board) error {
		piece := board.PieceAt(pos.X, pos.Y)
		var err error
		switch {
		case piece == nil:
			_, err = board.AddPiece(model.White, pos.X, pos.Y, false)
		case piece.Color == model.White && !piece.IsKing:
			_, err = board.Place(model.Black, pos.X, pos.Y, false)
		case piece.Color == model.Black && !piece.IsKing:
			_, err = board.Place(model.White, pos.X, pos.Y, true)
		case piece.Color == model.White:
			_, err = board.Place(model.Black, pos.X, pos.Y, true)
		default:
			board.ClearField(pos.X, pos.Y)
		}
		return err
	})
	if err != nil {
		return Selection{}, err
	}
	return Selection{Fields: []model.Position{}}, nil
}

func (ec *editorController) OnMoveRequested(playerID string, from, to model.Position) error {
	if !ec.game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}
	return ec.game.Edit(func(board *model.Board) error {
		piece := board.PieceAt(from.X, from.Y)
		if piece == nil {
			return fmt.Errorf("%w: no piece at %s", model.ErrIllegalMove, from)
		}
		if _, err := board.AddPiece(piece.Color, to.X, to.Y, piece.IsKing); err != nil {
			return err
		}
		board.RemovePiece(piece)
		return nil
	})
}
