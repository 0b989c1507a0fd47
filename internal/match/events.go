package match

import (
	"github.com/gridpoint/tictactoe-server/internal/entity"
)

const (
	EventPlayerJoined       = "player_joined"
	EventGameStart          = "game_start"
	EventMoveMade           = "move_made"
	EventGameOver           = "game_over"
	EventPlayerDisconnected = "player_disconnected"

	ReasonForfeit = "forfeit"
)

// PlayerJoinedEvent announces a new roster entry to every connected
// client, including the joiner.
type PlayerJoinedEvent struct {
	Type   string         `json:"type"`
	Player *entity.Player `json:"player"`
}

// GameStartEvent carries the full roster and first turn once the second
// player has joined.
type GameStartEvent struct {
	Type        string                    `json:"type"`
	Players     map[string]*entity.Player `json:"players"`
	CurrentTurn string                    `json:"currentTurn"`
	Mode        string                    `json:"mode"`
	TimeLimit   int                       `json:"timeLimit,omitempty"`
}

// MoveMadeEvent reports an applied move, or a timeout pass when
// Position is the sentinel. TimeTaken is only set in timed mode.
type MoveMadeEvent struct {
	Type        string                   `json:"type"`
	Position    int                      `json:"position"`
	Mark        string                   `json:"mark,omitempty"`
	Board       [entity.BoardSize]string `json:"board"`
	CurrentTurn string                   `json:"currentTurn"`
	TimeTaken   *float64                 `json:"timeTaken,omitempty"`
}

// GameOverEvent is the terminal broadcast: a winner, a draw, or a
// forfeit in the other player's favor.
type GameOverEvent struct {
	Type   string                   `json:"type"`
	Winner string                   `json:"winner,omitempty"`
	Board  [entity.BoardSize]string `json:"board"`
	IsDraw bool                     `json:"isDraw"`
	Reason string                   `json:"reason,omitempty"`
}

type PlayerDisconnectedEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// JoinRejectedEvent is sent to a single client whose join attempt was
// refused, before its connection is closed.
type JoinRejectedEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

const EventJoinRejected = "join_rejected"
