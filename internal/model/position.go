package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// PositionFile is the on-disk shape of a saved board.
type PositionFile struct {
	Checkers []CheckerRecord `json:"checkers"`
}

type CheckerRecord struct {
	Color  Color `json:"color"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
	IsKing bool  `json:"is_king"`
}

func SaveBoard(board *Board) ([]byte, error) {
	file := PositionFile{Checkers: make([]CheckerRecord, 0, len(board.Pieces))}
	for _, p := range board.Snapshot() {
		file.Checkers = append(file.Checkers, CheckerRecord{
			Color:  p.Color,
			X:      p.Position.X,
			Y:      p.Position.Y,
			IsKing: p.IsKing,
		})
	}
	return json.MarshalIndent(file, "", "    ")
}

// LoadBoard parses a saved position. Nothing is returned unless every entry
// is valid.
func LoadBoard(data []byte) (*Board, error) {
	var file PositionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPosition, err)
	}
	board := NewBoard()
	for i, c := range file.Checkers {
		if _, err := board.AddPiece(c.Color, c.X, c.Y, c.IsKing); err != nil {
			return nil, fmt.Errorf("checker %d: %w", i, err)
		}
	}
	return board, nil
}

func LoadBoardFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read position %s: %w", path, err)
	}
	board, err := LoadBoard(data)
	if err != nil {
		return nil, fmt.Errorf("load position %s: %w", path, err)
	}
	return board, nil
}

func SaveBoardFile(path string, board *Board) error {
	data, err := SaveBoard(board)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
