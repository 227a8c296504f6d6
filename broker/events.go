package broker

import "time"

type EventType string

const (
	// Event types in format: <resource>.<action>
	NoteCreated    EventType = "note.created"
	NoteUpdated    EventType = "note.updated"
	NoteDeleted    EventType = "note.deleted"
	NoteSummarized EventType = "note.summarized"

	UserCreated EventType = "user.created"
)

// EventMessage is the envelope published for every dispatched event.
type EventMessage struct {
	Type    EventType    `json:"type"`
	Payload EventPayload `json:"payload"`
}

type EventPayload struct {
	EventID   string                 `json:"event_id"`
	Timestamp time.Time              `json:"timestamp"`
	Entity    string                 `json:"entity"`
	Operation string                 `json:"operation"`
	ActorID   string                 `json:"actor_id,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
	NoteID    string                 `json:"note_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
}
