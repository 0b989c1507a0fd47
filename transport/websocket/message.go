package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridpoint/tictactoe-server/internal/match"
)

const (
	messageTypeMove    = "move"
	messageTypeForfeit = "forfeit"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMissingPosition    = errors.New("move message has no position")
)

// clientMessage is the wire envelope for client-to-server messages.
type clientMessage struct {
	Type     string `json:"type"`
	Position *int   `json:"position,omitempty"`
}

// decodeCommand turns one raw payload into a typed command. Everything
// past this point operates on the variant, never on the raw JSON.
func decodeCommand(data []byte) (match.Command, error) {
	var message clientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	switch message.Type {
	case messageTypeMove:
		if message.Position == nil {
			return nil, ErrMissingPosition
		}
		return match.MoveCommand{Position: *message.Position}, nil
	case messageTypeForfeit:
		return match.ForfeitCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, message.Type)
	}
}
