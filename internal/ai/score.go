package ai

import (
	"cmp"
	"fmt"
)

type Outcome int

const (
	Lose Outcome = iota + 1
	Draw
	Unknown
	Win
)

func (o Outcome) String() string {
	switch o {
	case Lose:
		return "lose"
	case Draw:
		return "draw"
	case Unknown:
		return "unknown"
	case Win:
		return "win"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Score ranks a line of play for the AI. Fields are compared in order; fewer
// opponent captures is better.
type Score struct {
	Outcome          Outcome `json:"outcome"`
	AICaptures       int     `json:"aiCaptures"`
	OpponentCaptures int     `json:"opponentCaptures"`
}

func (s Score) Compare(o Score) int {
	if c := cmp.Compare(s.Outcome, o.Outcome); c != 0 {
		return c
	}
	if c := cmp.Compare(s.AICaptures, o.AICaptures); c != 0 {
		return c
	}
	return cmp.Compare(o.OpponentCaptures, s.OpponentCaptures)
}

func (s Score) String() string {
	return fmt.Sprintf("%s/+%d/-%d", s.Outcome, s.AICaptures, s.OpponentCaptures)
}
