package model

// Classify decides what moving piece to (x, y) would be on board. It never
// mutates the board.
func Classify(board *Board, piece *Piece, x, y int) Move {
	invalid := Move{Type: MoveInvalid}
	if !board.IsValidField(x, y) {
		return invalid
	}
	if board.PieceAt(x, y) != nil || !board.IsDarkField(x, y) {
		return invalid
	}

	dx := x - piece.Position.X
	dy := y - piece.Position.Y
	xDir, yDir := sign(dx), sign(dy)

	if piece.IsKing {
		if abs(dx) != abs(dy) {
			return invalid
		}
		var victim *Piece
		for i := 1; i < abs(dx); i++ {
			p := board.PieceAt(piece.Position.X+i*xDir, piece.Position.Y+i*yDir)
			if p == nil {
				continue
			}
			if victim != nil {
				return invalid
			}
			victim = p
		}
		if victim == nil {
			return Move{Type: MoveSimple}
		}
		if victim.Color == piece.Color {
			return invalid
		}
		return Move{Type: MoveCapture, Victim: victim}
	}

	// men capture in every direction
	if abs(dx) == 2 && abs(dy) == 2 {
		victim := board.PieceAt(piece.Position.X+xDir, piece.Position.Y+yDir)
		if victim != nil && victim.Color != piece.Color {
			return Move{Type: MoveCapture, Victim: victim}
		}
		return invalid
	}

	if dy != piece.Color.Forward() || abs(dx) != 1 {
		return invalid
	}
	return Move{Type: MoveSimple}
}

// applyMove relocates piece and removes the victim of a capture. It reports
// whether the piece was crowned by this move.
func applyMove(board *Board, piece *Piece, x, y int, move Move) bool {
	board.relocate(piece, x, y)
	if move.Type == MoveCapture && move.Victim != nil {
		board.RemovePiece(move.Victim)
	}
	if !piece.IsKing && y == board.PromotionRow(piece.Color) {
		piece.IsKing = true
		return true
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Apply plays a single step on board with no turn bookkeeping. Invalid steps
// leave the board unchanged. The second result reports a crowning.
func Apply(board *Board, piece *Piece, x, y int) (Move, bool) {
	move := Classify(board, piece, x, y)
	if move.Type == MoveInvalid {
		return move, false
	}
	return move, applyMove(board, piece, x, y, move)
}
