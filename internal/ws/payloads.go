package ws

import (
	"encoding/json"

	"richman_server/internal/game"
)

// Envelope is every inbound frame.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is every outbound frame.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client → server
type CreatePayload struct {
	RoomID   string         `json:"room_id"`
	Settings *game.Settings `json:"settings,omitempty"`
}

// GamePayload addresses join, start and state. An empty GameID means the
// sender's current game.
type GamePayload struct {
	GameID string `json:"game_id"`
}

type ActionPayload struct {
	Type game.ActionType `json:"type"`
	Data map[string]any  `json:"data,omitempty"`
}

// server → client
type ReadyPayload struct {
	PlayerID string `json:"player_id"`
	GameID   string `json:"game_id,omitempty"`
}

type JoinedPayload struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type ActionResultPayload struct {
	Action  game.ActionType `json:"action"`
	Success bool            `json:"success"`
	Result  map[string]any  `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
