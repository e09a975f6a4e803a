package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDarkField(t *testing.T) {
	board := NewBoard()
	assert.True(t, board.IsDarkField(0, 0))
	assert.True(t, board.IsDarkField(2, 2))
	assert.True(t, board.IsDarkField(1, 7))
	assert.False(t, board.IsDarkField(0, 1))
	assert.False(t, board.IsDarkField(1, 2))
}

func TestNewStartingBoard(t *testing.T) {
	board := NewStartingBoard()
	assert.Equal(t, 12, board.Count(White))
	assert.Equal(t, 12, board.Count(Black))
	for _, p := range board.Pieces {
		assert.True(t, board.IsDarkField(p.Position.X, p.Position.Y), "piece on light field %s", p.Position)
		assert.False(t, p.IsKing)
		if p.Color == White {
			assert.Less(t, p.Position.Y, 3)
		} else {
			assert.Greater(t, p.Position.Y, 4)
		}
	}
}

func TestAddPieceRejectsBadFields(t *testing.T) {
	board := boardWith(t, man(White, 2, 2))

	tests := []struct {
		name  string
		color Color
		x, y  int
	}{
		{"light field", White, 0, 1},
		{"out of bounds", White, 8, 0},
		{"negative", Black, -1, 1},
		{"occupied", Black, 2, 2},
		{"unknown color", Color("red"), 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := board.AddPiece(tt.color, tt.x, tt.y, false)
			require.ErrorIs(t, err, ErrMalformedPosition)
		})
	}
	assert.Len(t, board.Pieces, 1)
}

func TestCloneIsDeep(t *testing.T) {
	board := boardWith(t, man(White, 2, 2), man(Black, 5, 5))
	clone := board.Clone()

	for i := range board.Pieces {
		assert.NotSame(t, board.Pieces[i], clone.Pieces[i])
	}
	moved := clone.PieceAt(2, 2)
	moved.Position = pos(3, 3)
	moved.IsKing = true
	clone.RemovePiece(clone.PieceAt(5, 5))

	original := board.PieceAt(2, 2)
	require.NotNil(t, original)
	assert.False(t, original.IsKing)
	assert.NotNil(t, board.PieceAt(5, 5))
	assert.Len(t, board.Pieces, 2)
}

func TestPlaceReplacesPiece(t *testing.T) {
	board := boardWith(t, king(White, 2, 2))

	_, err := board.Place(White, 2, 2, false)
	require.NoError(t, err)
	require.Len(t, board.Pieces, 1)
	assert.False(t, board.PieceAt(2, 2).IsKing)
}

func TestPromotionRow(t *testing.T) {
	board := NewBoard()
	assert.Equal(t, 7, board.PromotionRow(White))
	assert.Equal(t, 0, board.PromotionRow(Black))
}
