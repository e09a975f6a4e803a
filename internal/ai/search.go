// Package ai picks moves for the computer opponent with a depth-bounded
// minimax over the rules in the model package.
package ai

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultDepth = 3

// Rand is the source used to break ties between equally scored moves.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Candidate is one step, from a field to a field.
type Candidate struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

type Searcher struct {
	depth       int
	rand        Rand
	parallelism int
}

type Option func(*Searcher)

func WithDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func WithRand(r Rand) Option {
	return func(s *Searcher) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithParallelism caps how many first-ply branches are searched at once.
func WithParallelism(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{
		depth:       DefaultDepth,
		rand:        globalRand{},
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BestMoves returns every first step for aiColor that reaches the best score.
// An empty result means aiColor has nothing to play. board is not modified.
func (s *Searcher) BestMoves(ctx context.Context, board *model.Board, aiColor, opponentColor model.Color) ([]Candidate, Score, error) {
	return s.search(ctx, board, aiColor, opponentColor, nil)
}

// BestContinuation is BestMoves limited to the piece on from, for a capture
// chain that is still in progress.
func (s *Searcher) BestContinuation(ctx context.Context, board *model.Board, aiColor, opponentColor model.Color, from model.Position) ([]Candidate, Score, error) {
	return s.search(ctx, board, aiColor, opponentColor, &from)
}

// BestMove picks uniformly among the tied best moves. ok is false when the
// side must skip.
func (s *Searcher) BestMove(ctx context.Context, board *model.Board, aiColor, opponentColor model.Color) (Candidate, bool, error) {
	candidates, _, err := s.BestMoves(ctx, board, aiColor, opponentColor)
	if err != nil || len(candidates) == 0 {
		return Candidate{}, false, err
	}
	return s.Choose(candidates), true, nil
}

func (s *Searcher) Choose(candidates []Candidate) Candidate {
	return candidates[s.rand.IntN(len(candidates))]
}

func (s *Searcher) search(ctx context.Context, board *model.Board, aiColor, opponentColor model.Color, from *model.Position) ([]Candidate, Score, error) {
	candidates := Moves(board, aiColor, from)
	if len(candidates) == 0 {
		return nil, Score{Outcome: Unknown}, nil
	}

	for _, c := range candidates {
		if wins(board, aiColor, c) {
			return []Candidate{c}, Score{Outcome: Win}, nil
		}
	}

	scores := make([]Score, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, c := range candidates {
		g.Go(func() error {
			score, _, err := s.trial(gctx, board, aiColor, opponentColor, aiColor, 1, c)
			scores[i] = score
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Score{}, err
	}

	best := scores[0]
	for _, score := range scores[1:] {
		if score.Compare(best) > 0 {
			best = score
		}
	}
	tied := []Candidate{}
	for i, score := range scores {
		if score.Compare(best) == 0 {
			tied = append(tied, candidates[i])
		}
	}
	log.Debug().
		Str("color", string(aiColor)).
		Int("candidates", len(candidates)).
		Int("tied", len(tied)).
		Stringer("score", best).
		Msg("search finished")
	return tied, best, nil
}

// evaluate scores the position for the side moving at level: the AI on odd
// levels, the opponent on even ones.
func (s *Searcher) evaluate(ctx context.Context, board *model.Board, aiColor, opponentColor model.Color, level int) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	color := opponentColor
	if level%2 == 1 {
		color = aiColor
	}

	candidates := Moves(board, color, nil)
	if len(candidates) == 0 {
		return Score{Outcome: Unknown}, nil
	}

	var best Score
	for i, c := range candidates {
		score, decided, err := s.trial(ctx, board, aiColor, opponentColor, color, level, c)
		if err != nil {
			return Score{}, err
		}
		if decided {
			return score, nil
		}
		if i == 0 {
			best = score
			continue
		}
		if color == aiColor && score.Compare(best) > 0 || color != aiColor && score.Compare(best) < 0 {
			best = score
		}
	}
	return best, nil
}

// trial plays c for color on a copy of board and scores the result. decided
// is set when the step ends the game.
func (s *Searcher) trial(ctx context.Context, board *model.Board, aiColor, opponentColor, color model.Color, level int, c Candidate) (Score, bool, error) {
	scratch := board.Clone()
	piece := scratch.PieceAt(c.From.X, c.From.Y)
	move, _ := model.Apply(scratch, piece, c.To.X, c.To.Y)

	if _, ok := model.Winner(scratch, color.Opponent()); ok {
		if color == aiColor {
			return Score{Outcome: Win}, true, nil
		}
		return Score{Outcome: Lose}, true, nil
	}

	score := Score{Outcome: Unknown}
	if level < s.depth {
		var err error
		score, err = s.evaluate(ctx, scratch, aiColor, opponentColor, level+1)
		if err != nil {
			return Score{}, false, err
		}
	}
	if move.Type == model.MoveCapture {
		if color == aiColor {
			score.AICaptures++
		} else {
			score.OpponentCaptures++
		}
	}
	return score, false, nil
}

// wins reports whether playing c ends the game in favour of color.
func wins(board *model.Board, color model.Color, c Candidate) bool {
	scratch := board.Clone()
	piece := scratch.PieceAt(c.From.X, c.From.Y)
	model.Apply(scratch, piece, c.To.X, c.To.Y)
	winner, ok := model.Winner(scratch, color.Opponent())
	return ok && winner == color
}

// Moves lists every legal step for color, or only the capture steps of the
// piece on from when from is set.
func Moves(board *model.Board, color model.Color, from *model.Position) []Candidate {
	candidates := []Candidate{}
	if from != nil {
		piece := board.PieceAt(from.X, from.Y)
		if piece == nil || piece.Color != color {
			return candidates
		}
		for _, to := range model.CaptureFields(board, piece) {
			candidates = append(candidates, Candidate{From: *from, To: to})
		}
		return candidates
	}

	moves := model.AvailableMovesForSide(board, color)
	for _, p := range board.PiecesOf(color) {
		for _, to := range moves[p] {
			candidates = append(candidates, Candidate{From: p.Position, To: to})
		}
	}
	return candidates
}
