package models

import (
	"time"

	"github.com/google/uuid"
)

type WebSocketMessageType string

const (
	EventMessage        WebSocketMessageType = "event"
	SubscriptionMessage WebSocketMessageType = "subscription"
	PongMessage         WebSocketMessageType = "pong"
	ErrorMessage        WebSocketMessageType = "error"
)

// StandardMessage is the frame pushed to live-update clients.
type StandardMessage struct {
	ID           string               `json:"id"`
	Type         WebSocketMessageType `json:"type"`
	Event        string               `json:"event,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
	Payload      interface{}          `json:"payload"`
	ResourceID   string               `json:"resource_id,omitempty"`
	ResourceType string               `json:"resource_type,omitempty"`
}

func NewStandardMessage(msgType WebSocketMessageType, event string, payload interface{}) *StandardMessage {
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func (m *StandardMessage) WithResource(resourceType string, resourceID string) *StandardMessage {
	m.ResourceType = resourceType
	m.ResourceID = resourceID
	return m
}
