package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type placement struct {
	color Color
	x, y  int
	king  bool
}

func man(color Color, x, y int) placement { return placement{color: color, x: x, y: y} }
func king(color Color, x, y int) placement { return placement{color: color, x: x, y: y, king: true} }

func boardWith(t *testing.T, pieces ...placement) *Board {
	t.Helper()
	board := NewBoard()
	for _, p := range pieces {
		_, err := board.AddPiece(p.color, p.x, p.y, p.king)
		require.NoError(t, err, "placing %s at %d,%d", p.color, p.x, p.y)
	}
	return board
}

func pos(x, y int) Position { return Position{X: x, Y: y} }
