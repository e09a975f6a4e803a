package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, pieces ...placement) *Game {
	t.Helper()
	return NewGame("test", boardWith(t, pieces...))
}

// requireUnchanged fails when the game board differs from before.
func requireUnchanged(t *testing.T, before []Piece, g *Game) {
	t.Helper()
	if diff := cmp.Diff(before, g.Board().Snapshot()); diff != "" {
		t.Fatalf("board changed on rejected move (-before +after):\n%s", diff)
	}
}

func TestMoveRejections(t *testing.T) {
	g := newTestGame(t,
		man(White, 2, 2),
		man(White, 6, 0),
		man(Black, 3, 3),
		man(Black, 7, 7),
	)
	white, black := g.Player(White), g.Player(Black)
	before := g.Board().Snapshot()

	_, err := g.Move(black, g.PieceAt(pos(3, 3)), 2, 4)
	assert.ErrorIs(t, err, ErrInvalidTurn)

	_, err = g.Move(white, g.PieceAt(pos(3, 3)), 2, 4)
	assert.ErrorIs(t, err, ErrWrongPiece)

	_, err = g.Move(white, g.PieceAt(pos(2, 2)), 1, 1)
	assert.ErrorIs(t, err, ErrIllegalMove)

	// (6,0) could step to (5,1) if no capture were pending
	_, err = g.Move(white, g.PieceAt(pos(6, 0)), 5, 1)
	assert.ErrorIs(t, err, ErrMustCapture)

	_, err = g.MoveAt(white, pos(0, 0), pos(1, 1))
	assert.ErrorIs(t, err, ErrIllegalMove)

	// empty field: no piece to move
	_, err = g.Move(white, g.PieceAt(pos(4, 4)), 5, 5)
	assert.ErrorIs(t, err, ErrIllegalMove)

	requireUnchanged(t, before, g)
	assert.Same(t, white, g.CurrentPlayer())
}

func TestMoveForeignPiece(t *testing.T) {
	g := newTestGame(t, man(White, 2, 2), man(Black, 7, 7))
	stray := &Piece{Color: White, Position: pos(2, 2)}

	_, err := g.Move(g.Player(White), stray, 3, 3)
	assert.ErrorIs(t, err, ErrWrongPiece)
}

func TestSimpleMoveSwitchesTurn(t *testing.T) {
	g := newTestGame(t, man(White, 1, 1), man(Black, 6, 6))
	white := g.Player(White)
	piece := g.PieceAt(pos(1, 1))

	move, err := g.Move(white, piece, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, MoveSimple, move.Type)
	assert.Equal(t, pos(2, 2), piece.Position)
	assert.Same(t, g.Player(Black), g.CurrentPlayer())
	assert.Equal(t, 0, white.Score)

	state := g.GetState()
	require.Len(t, state.MoveHistory, 1)
	assert.Equal(t, "b2-c3", state.MoveHistory[0].Notation)
	assert.Equal(t, Black, state.ToMove)
}

func TestCaptureRemovesVictim(t *testing.T) {
	g := newTestGame(t, man(White, 2, 2), man(Black, 3, 3), man(Black, 7, 7))
	white := g.Player(White)
	piece := g.PieceAt(pos(2, 2))
	victim := g.PieceAt(pos(3, 3))

	move, err := g.Move(white, piece, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, MoveCapture, move.Type)
	assert.Same(t, victim, move.Victim)

	board := g.Board()
	assert.Nil(t, board.PieceAt(3, 3))
	require.NotNil(t, board.PieceAt(4, 4))
	assert.Equal(t, White, board.PieceAt(4, 4).Color)
	assert.Equal(t, 1, white.Score)
	assert.Same(t, g.Player(Black), g.CurrentPlayer())
	assert.Equal(t, "c3:e5", g.GetState().MoveHistory[0].Notation)
}

func TestCaptureChainKeepsTurn(t *testing.T) {
	g := newTestGame(t,
		man(White, 2, 2),
		man(White, 0, 0),
		man(Black, 3, 3),
		man(Black, 5, 5),
		man(Black, 7, 7),
	)
	white := g.Player(White)
	piece := g.PieceAt(pos(2, 2))

	_, err := g.Move(white, piece, 4, 4)
	require.NoError(t, err)
	assert.Same(t, white, g.CurrentPlayer())
	cont, ok := g.Continuing()
	require.True(t, ok)
	assert.Equal(t, pos(4, 4), cont)

	_, err = g.Move(white, g.PieceAt(pos(0, 0)), 1, 1)
	assert.ErrorIs(t, err, ErrMustCapture)
	assert.Empty(t, g.AvailableFields(g.PieceAt(pos(0, 0))))

	_, err = g.Move(white, piece, 6, 6)
	require.NoError(t, err)
	assert.Same(t, g.Player(Black), g.CurrentPlayer())
	_, ok = g.Continuing()
	assert.False(t, ok)
	assert.Equal(t, 2, white.Score)
}

func TestPromotionBySimpleMoveEndsTurn(t *testing.T) {
	g := newTestGame(t, man(White, 2, 6), man(Black, 5, 1))
	piece := g.PieceAt(pos(2, 6))

	_, err := g.Move(g.Player(White), piece, 3, 7)
	require.NoError(t, err)
	assert.True(t, piece.IsKing)
	assert.Same(t, g.Player(Black), g.CurrentPlayer())
	assert.True(t, g.GetState().MoveHistory[0].Crowned)
}

func TestCrowningCaptureEndsTurn(t *testing.T) {
	g := newTestGame(t,
		man(White, 1, 5),
		man(Black, 2, 6),
		man(Black, 5, 5),
	)
	piece := g.PieceAt(pos(1, 5))

	_, err := g.Move(g.Player(White), piece, 3, 7)
	require.NoError(t, err)
	assert.True(t, piece.IsKing)
	// the new king could take (5,5) but the turn is over
	assert.Same(t, g.Player(Black), g.CurrentPlayer())
	_, ok := g.Continuing()
	assert.False(t, ok)
}

func TestKingStaysKing(t *testing.T) {
	g := newTestGame(t, man(White, 2, 6), man(Black, 7, 1), man(Black, 0, 6))
	white, black := g.Player(White), g.Player(Black)
	piece := g.PieceAt(pos(2, 6))

	_, err := g.Move(white, piece, 1, 7)
	require.NoError(t, err)
	require.True(t, piece.IsKing)

	_, err = g.Move(black, g.PieceAt(pos(7, 1)), 6, 0)
	require.NoError(t, err)

	_, err = g.Move(white, piece, 4, 4)
	require.NoError(t, err)
	assert.True(t, piece.IsKing)
}

func TestWinnerAfterLastCapture(t *testing.T) {
	g := newTestGame(t, man(White, 2, 2), man(Black, 3, 3))
	white := g.Player(White)

	_, err := g.Move(white, g.PieceAt(pos(2, 2)), 4, 4)
	require.NoError(t, err)

	winner, over := g.Winner()
	require.True(t, over)
	assert.Equal(t, White, winner)

	_, err = g.Move(g.CurrentPlayer(), g.PieceAt(pos(4, 4)), 5, 5)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.NotNil(t, g.GetState().Winner)
}

func TestAddPlayer(t *testing.T) {
	g := NewGame("g", nil)
	c, err := g.AddPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, White, c)
	c, err = g.AddPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, Black, c)
	c, err = g.AddPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, White, c)
	_, err = g.AddPlayer("carol")
	assert.ErrorIs(t, err, ErrGameFull)

	_, err = g.PlayerByID("carol")
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestTrainingPlayerHoldsBothSeats(t *testing.T) {
	g := NewGame("g", nil, WithMode(ModeTraining))
	_, err := g.AddPlayer("solo")
	require.NoError(t, err)

	p, err := g.PlayerByID("solo")
	require.NoError(t, err)
	assert.Same(t, g.Player(White), p)

	_, err = g.MoveAt(p, pos(2, 2), pos(3, 3))
	require.NoError(t, err)

	p, err = g.PlayerByID("solo")
	require.NoError(t, err)
	assert.Same(t, g.Player(Black), p)
}

func TestOnePlayerSeatsAI(t *testing.T) {
	g := NewGame("g", nil, WithMode(ModeOnePlayer))
	assert.True(t, g.Player(Black).IsAI)
	assert.Equal(t, AIPlayerID, g.Player(Black).ID)
	_, err := g.AddPlayer("human")
	require.NoError(t, err)
	_, err = g.AddPlayer("other")
	assert.ErrorIs(t, err, ErrGameFull)
}

func TestEditOnlyInEditor(t *testing.T) {
	g := NewGame("g", nil)
	err := g.Edit(func(b *Board) error {
		b.ClearField(0, 0)
		return nil
	})
	assert.ErrorIs(t, err, ErrNotEditable)

	editor := NewGame("e", NewBoard(), WithMode(ModeEditor))
	_, over := editor.Winner()
	assert.False(t, over)
	require.NoError(t, editor.Edit(func(b *Board) error {
		_, err := b.AddPiece(White, 0, 0, true)
		return err
	}))
	assert.True(t, editor.Board().PieceAt(0, 0).IsKing)
}

func TestStateMovable(t *testing.T) {
	g := newTestGame(t,
		man(White, 2, 2),
		man(White, 6, 0),
		man(Black, 3, 3),
		man(Black, 7, 7),
	)
	assert.Equal(t, []Position{pos(2, 2)}, g.GetState().Movable)
}
