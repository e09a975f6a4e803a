// Package ws holds the envelope exchanged over game sockets.
package ws

import (
	"encoding/json"
)

type MessageType string

// Client to server: move, select, hint. Server to client: selection, hint,
// gameState, error.
const (
	MessageTypeMove      MessageType = "move"
	MessageTypeSelect    MessageType = "select"
	MessageTypeSelection MessageType = "selection"
	MessageTypeHint      MessageType = "hint"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message carries a JSON payload whose shape depends on Type.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Error builds an error message carrying text as a JSON string.
func Error(text string) Message {
	payload, _ := json.Marshal(text)
	return Message{Type: MessageTypeError, Payload: payload}
}
