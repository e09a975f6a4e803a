package model

func fieldsOfType(board *Board, piece *Piece, moveType MoveType) []Position {
	fields := []Position{}
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if Classify(board, piece, x, y).Type == moveType {
				fields = append(fields, Position{X: x, Y: y})
			}
		}
	}
	return fields
}

// continuesCapture plays the capture to on a scratch board and reports whether
// the same piece could capture again. A capture that crowns ends the turn, so
// it never continues.
func continuesCapture(board *Board, piece *Piece, to Position) bool {
	scratch := board.Clone()
	moved := scratch.PieceAt(piece.Position.X, piece.Position.Y)
	move := Classify(scratch, moved, to.X, to.Y)
	if move.Type != MoveCapture {
		return false
	}
	if applyMove(scratch, moved, to.X, to.Y, move) {
		return false
	}
	return len(fieldsOfType(scratch, moved, MoveCapture)) > 0
}

// CaptureFields returns the capture destinations of piece, keeping only those
// that allow a further capture when any do. Only one further ply is looked at.
func CaptureFields(board *Board, piece *Piece) []Position {
	captures := fieldsOfType(board, piece, MoveCapture)
	continuing := []Position{}
	for _, to := range captures {
		if continuesCapture(board, piece, to) {
			continuing = append(continuing, to)
		}
	}
	if len(continuing) > 0 {
		return continuing
	}
	return captures
}

func HasCapture(board *Board, color Color) bool {
	for _, p := range board.PiecesOf(color) {
		if len(fieldsOfType(board, p, MoveCapture)) > 0 {
			return true
		}
	}
	return false
}

// AvailableFields lists where piece may legally go. While any piece of its side
// can capture, only captures are offered.
func AvailableFields(board *Board, piece *Piece) []Position {
	if HasCapture(board, piece.Color) {
		return CaptureFields(board, piece)
	}
	return fieldsOfType(board, piece, MoveSimple)
}

// AvailableMovesForSide maps every movable piece of color to its destinations.
// Pieces without a legal destination are left out.
func AvailableMovesForSide(board *Board, color Color) map[*Piece][]Position {
	moves := make(map[*Piece][]Position)
	capturing := HasCapture(board, color)
	for _, p := range board.PiecesOf(color) {
		var fields []Position
		if capturing {
			fields = CaptureFields(board, p)
		} else {
			fields = fieldsOfType(board, p, MoveSimple)
		}
		if len(fields) > 0 {
			moves[p] = fields
		}
	}
	return moves
}

func HasLegalMove(board *Board, color Color) bool {
	for _, p := range board.PiecesOf(color) {
		if len(fieldsOfType(board, p, MoveCapture)) > 0 || len(fieldsOfType(board, p, MoveSimple)) > 0 {
			return true
		}
	}
	return false
}

// Winner reports the winning side when toMove is out of pieces or has nothing
// to play, or when either side has been wiped out.
func Winner(board *Board, toMove Color) (Color, bool) {
	if board.Count(White) == 0 {
		return Black, true
	}
	if board.Count(Black) == 0 {
		return White, true
	}
	if !HasLegalMove(board, toMove) {
		return toMove.Opponent(), true
	}
	return "", false
}

func containsField(fields []Position, x, y int) bool {
	for _, f := range fields {
		if f.X == x && f.Y == y {
			return true
		}
	}
	return false
}
