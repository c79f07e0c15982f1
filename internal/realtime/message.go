package realtime

import (
	"encoding/json"
	"time"

	"github.com/mhasan/chatwave/internal/domain"
)

type EventType string

const (
	// Server to Client
	EventTypeConnected  EventType = "connected"
	EventTypeNewMessage EventType = "newMessage"
	EventTypeError      EventType = "error"
)

type Event struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewEvent(eventType EventType, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// ConnectedPayload acknowledges a successful handshake.
type ConnectedPayload struct {
	User *domain.PublicUser `json:"user"`
}

// NewMessagePayload carries the sender's public view to the recipient.
type NewMessagePayload struct {
	User *domain.PublicUser `json:"user"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
