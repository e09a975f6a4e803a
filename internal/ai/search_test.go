package ai

import (
	"context"
	"testing"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ n int }

func (r fixedRand) IntN(n int) int { return r.n % n }

type piece struct {
	color model.Color
	x, y  int
}

func board(t *testing.T, pieces ...piece) *model.Board {
	t.Helper()
	b := model.NewBoard()
	for _, p := range pieces {
		_, err := b.AddPiece(p.color, p.x, p.y, false)
		require.NoError(t, err)
	}
	return b
}

func at(x, y int) model.Position { return model.Position{X: x, Y: y} }

func TestBestMoveSkipsWithoutMoves(t *testing.T) {
	// both men sit on their crowning rows uncrowned and cannot move
	b := board(t, piece{model.White, 1, 7}, piece{model.Black, 6, 0})
	s := NewSearcher()

	candidates, score, err := s.BestMoves(context.Background(), b, model.White, model.Black)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Equal(t, Unknown, score.Outcome)

	_, ok, err := s.BestMove(context.Background(), b, model.White, model.Black)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBestMovesTakesWinningCapture(t *testing.T) {
	b := board(t, piece{model.White, 2, 2}, piece{model.Black, 3, 3})

	candidates, score, err := NewSearcher().BestMoves(context.Background(), b, model.White, model.Black)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{From: at(2, 2), To: at(4, 4)}}, candidates)
	assert.Equal(t, Win, score.Outcome)
}

func TestBestMovesAvoidsHangingPiece(t *testing.T) {
	b := board(t,
		piece{model.White, 4, 2},
		piece{model.Black, 6, 4},
		piece{model.Black, 0, 6},
	)

	candidates, score, err := NewSearcher().BestMoves(context.Background(), b, model.White, model.Black)
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{From: at(4, 2), To: at(3, 3)}}, candidates)
	assert.Equal(t, Unknown, score.Outcome)
}

func TestSearchLeavesBoardAlone(t *testing.T) {
	b := model.NewStartingBoard()
	before := b.Snapshot()

	_, _, err := NewSearcher(WithDepth(2)).BestMoves(context.Background(), b, model.White, model.Black)
	require.NoError(t, err)
	assert.Equal(t, before, b.Snapshot())
}

func TestBestMoveIsOneOfTheTied(t *testing.T) {
	b := model.NewStartingBoard()
	ctx := context.Background()

	tied, _, err := NewSearcher(WithDepth(2)).BestMoves(ctx, b, model.White, model.Black)
	require.NoError(t, err)
	require.NotEmpty(t, tied)

	for n := 0; n < len(tied); n++ {
		s := NewSearcher(WithDepth(2), WithRand(fixedRand{n: n}))
		choice, ok, err := s.BestMove(ctx, b, model.White, model.Black)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, tied, choice)
		assert.Equal(t, tied[n], choice)
	}
}

func TestBestContinuationStaysOnPiece(t *testing.T) {
	b := board(t,
		piece{model.White, 2, 2},
		piece{model.White, 6, 0},
		piece{model.Black, 3, 3},
		piece{model.Black, 1, 3},
		piece{model.Black, 7, 7},
	)

	candidates, _, err := NewSearcher().BestContinuation(context.Background(), b, model.White, model.Black, at(2, 2))
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.Equal(t, at(2, 2), c.From)
		assert.Contains(t, []model.Position{at(4, 4), at(0, 4)}, c.To)
	}
}

func TestSearchHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewSearcher().BestMoves(ctx, model.NewStartingBoard(), model.White, model.Black)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMovesForcedCapture(t *testing.T) {
	b := board(t,
		piece{model.White, 2, 2},
		piece{model.White, 6, 0},
		piece{model.Black, 3, 3},
		piece{model.Black, 7, 7},
	)
	assert.Equal(t, []Candidate{{From: at(2, 2), To: at(4, 4)}}, Moves(b, model.White, nil))
}

func TestScoreCompare(t *testing.T) {
	assert.Positive(t, Score{Outcome: Win}.Compare(Score{Outcome: Unknown, AICaptures: 5}))
	assert.Positive(t, Score{Outcome: Unknown}.Compare(Score{Outcome: Draw}))
	assert.Positive(t, Score{Outcome: Draw}.Compare(Score{Outcome: Lose}))
	assert.Positive(t, Score{Outcome: Unknown, AICaptures: 2}.Compare(Score{Outcome: Unknown, AICaptures: 1}))
	assert.Negative(t, Score{Outcome: Unknown, OpponentCaptures: 2}.Compare(Score{Outcome: Unknown, OpponentCaptures: 1}))
	assert.Zero(t, Score{Outcome: Unknown, AICaptures: 1}.Compare(Score{Outcome: Unknown, AICaptures: 1}))
}
