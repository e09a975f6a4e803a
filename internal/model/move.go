package model

import "fmt"

type MoveType int

const (
	MoveInvalid MoveType = iota
	MoveSimple
	MoveCapture
)

func (t MoveType) String() string {
	switch t {
	case MoveSimple:
		return "simple"
	case MoveCapture:
		return "capture"
	}
	return "invalid"
}

// Move is the classification of a single step. Victim is set only for captures.
type Move struct {
	Type   MoveType
	Victim *Piece
}

func (m Move) IsValid() bool {
	return m.Type != MoveInvalid
}

type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Color    Color    `json:"color"`
	From     Position `json:"from"`
	To       Position `json:"to"`
	Captured *Piece   `json:"captured"`
	Crowned  bool     `json:"crowned"`
	Notation string   `json:"notation"`
}

func newPly(color Color, from, to Position, move Move, crowned bool) Ply {
	ply := Ply{Color: color, From: from, To: to, Crowned: crowned}
	sep := "-"
	if move.Type == MoveCapture {
		captured := *move.Victim
		ply.Captured = &captured
		sep = ":"
	}
	ply.Notation = fmt.Sprintf("%s%s%s", from.getSquareNotation(), sep, to.getSquareNotation())
	if crowned {
		ply.Notation += "K"
	}
	return ply
}
