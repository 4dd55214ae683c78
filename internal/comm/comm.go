package comm

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventsTopic is the NATS subject game events are published on.
const EventsTopic = "fourcorners.events"

const (
	EventGameCreated      = "game-created"
	EventPlayerEnrolled   = "player-enrolled"
	EventCornerEliminated = "corner-eliminated"
	EventGameFinished     = "game-finished"
)

type WSMessage struct {
	Type     string          `json:"type"` // one of the Event* constants
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
}

// GameEvent describes one committed change to a game.
type GameEvent struct {
	Type       string    `json:"type"`
	GameID     int64     `json:"game_id"`
	Corner     int       `json:"corner,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	Removed    int64     `json:"removed,omitempty"`
	Remaining  int       `json:"remaining"`
	Winner     string    `json:"winner,omitempty"`
	NextGameID int64     `json:"next_game_id,omitempty"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// EncodeEvent wraps ev in a WSMessage envelope.
func EncodeEvent(ev GameEvent) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal game event: %w", err)
	}

	msg := &WSMessage{
		Type: ev.Type,
		Data: data,
	}

	return json.Marshal(msg)
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(payload []byte) (*GameEvent, error) {
	msg := &WSMessage{}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, fmt.Errorf("unmarshal ws message: %w", err)
	}

	ev := &GameEvent{}
	if err := json.Unmarshal(msg.Data, ev); err != nil {
		return nil, fmt.Errorf("unmarshal game event %q: %w", msg.Type, err)
	}
	if ev.Type == "" {
		ev.Type = msg.Type
	}
	return ev, nil
}
