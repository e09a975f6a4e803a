package model

import (
	"fmt"
	"sort"
)

const BoardSize = 8

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Forward is the y step a man of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, p.Y+1)
}

func (p Position) String() string {
	return p.getSquareNotation()
}

type Piece struct {
	Color    Color    `json:"color"`
	Position Position `json:"position"`
	IsKing   bool     `json:"isKing"`
}

type Board struct {
	Size   int
	Pieces []*Piece
}

func NewBoard() *Board {
	return &Board{Size: BoardSize, Pieces: make([]*Piece, 0, 24)}
}

// NewStartingBoard sets up twelve men per side on the dark fields of the three
// home rows.
func NewStartingBoard() *Board {
	board := NewBoard()
	for y := 0; y < 3; y++ {
		for x := 0; x < board.Size; x++ {
			if board.IsDarkField(x, y) {
				board.Pieces = append(board.Pieces, &Piece{Color: White, Position: Position{X: x, Y: y}})
			}
		}
	}
	for y := board.Size - 3; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if board.IsDarkField(x, y) {
				board.Pieces = append(board.Pieces, &Piece{Color: Black, Position: Position{X: x, Y: y}})
			}
		}
	}
	return board
}

func (b *Board) IsValidField(x, y int) bool {
	return x >= 0 && x < b.Size && y >= 0 && y < b.Size
}

func (b *Board) IsDarkField(x, y int) bool {
	return (x+y+1)%2 == 1
}

func (b *Board) PieceAt(x, y int) *Piece {
	for _, p := range b.Pieces {
		if p.Position.X == x && p.Position.Y == y {
			return p
		}
	}
	return nil
}

func (b *Board) Contains(piece *Piece) bool {
	for _, p := range b.Pieces {
		if p == piece {
			return true
		}
	}
	return false
}

func (b *Board) AddPiece(color Color, x, y int, king bool) (*Piece, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("%w: unknown color %q", ErrMalformedPosition, color)
	}
	if !b.IsValidField(x, y) || !b.IsDarkField(x, y) {
		return nil, fmt.Errorf("%w: %d,%d is not a playable field", ErrMalformedPosition, x, y)
	}
	if b.PieceAt(x, y) != nil {
		return nil, fmt.Errorf("%w: field %d,%d is occupied", ErrMalformedPosition, x, y)
	}
	piece := &Piece{Color: color, Position: Position{X: x, Y: y}, IsKing: king}
	b.Pieces = append(b.Pieces, piece)
	return piece, nil
}

func (b *Board) RemovePiece(piece *Piece) {
	for i, p := range b.Pieces {
		if p == piece {
			b.Pieces = append(b.Pieces[:i], b.Pieces[i+1:]...)
			return
		}
	}
}

func (b *Board) PiecesOf(color Color) []*Piece {
	pieces := []*Piece{}
	for _, p := range b.Pieces {
		if p.Color == color {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func (b *Board) Count(color Color) int {
	n := 0
	for _, p := range b.Pieces {
		if p.Color == color {
			n++
		}
	}
	return n
}

func (b *Board) PromotionRow(color Color) int {
	if color == White {
		return b.Size - 1
	}
	return 0
}

// Clone returns a deep copy; no piece is shared with the receiver.
func (b *Board) Clone() *Board {
	clone := &Board{Size: b.Size, Pieces: make([]*Piece, len(b.Pieces))}
	for i, p := range b.Pieces {
		cp := *p
		clone.Pieces[i] = &cp
	}
	return clone
}

// Snapshot lists the pieces as values ordered by field, for comparison and
// client payloads.
func (b *Board) Snapshot() []Piece {
	pieces := make([]Piece, 0, len(b.Pieces))
	for _, p := range b.Pieces {
		pieces = append(pieces, *p)
	}
	sort.Slice(pieces, func(i, j int) bool {
		if pieces[i].Position.Y != pieces[j].Position.Y {
			return pieces[i].Position.Y < pieces[j].Position.Y
		}
		return pieces[i].Position.X < pieces[j].Position.X
	})
	return pieces
}

// Place puts a piece on a dark field, replacing whatever was there. It is an
// editor action and the only way a king can be turned back into a man.
func (b *Board) Place(color Color, x, y int, king bool) (*Piece, error) {
	b.ClearField(x, y)
	return b.AddPiece(color, x, y, king)
}

func (b *Board) ClearField(x, y int) {
	if p := b.PieceAt(x, y); p != nil {
		b.RemovePiece(p)
	}
}

func (b *Board) relocate(piece *Piece, x, y int) {
	piece.Position = Position{X: x, Y: y}
}
