// Package remote serves decision policies over websocket and lets the game
// use a policy running in another process.
//
// Every decision is a single exchange on its own connection: the client
// sends a decide message and the server answers with a decision or an
// error. Closing the connection abandons the decision.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPolicy wraps errors reported by the remote side
var ErrPolicy = errors.New("remote policy error")

// MessageType identifies the payload of a Message
type MessageType string

const (
	MessageTypeDecide   MessageType = "decide"
	MessageTypeDecision MessageType = "decision"
	MessageTypeError    MessageType = "error"
)

// Message is the envelope for every frame on the wire
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewMessage marshals data into a message of the given type
func NewMessage(messageType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", messageType, err)
	}
	return &Message{Type: messageType, Data: raw}, nil
}

// DecideData asks for a move on a board of dimension*dimension cells
type DecideData struct {
	Dimension int   `json:"dimension"`
	Cells     []int `json:"cells"`
}

// DecisionData is the chosen square, or -1,-1 for a pass
type DecisionData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ErrorData struct {
	Message string `json:"message"`
}
