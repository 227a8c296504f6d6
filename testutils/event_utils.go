package testutils

import (
	"encoding/json"
	"sync"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"notesai/notesai/models"
)

// MockEventRows creates mock SQL rows for events testing
func MockEventRows(events []models.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "event", "version", "entity", "operation",
		"timestamp", "actor_id", "data", "status",
		"dispatched", "dispatched_at",
	})

	for _, event := range events {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		if event.Data == nil {
			event.Data = json.RawMessage(`{}`)
		}
		if event.Status == "" {
			event.Status = "pending"
		}

		rows.AddRow(
			event.ID,
			event.Event,
			event.Version,
			event.Entity,
			event.Operation,
			event.Timestamp,
			event.ActorID,
			[]byte(event.Data),
			event.Status,
			event.Dispatched,
			event.DispatchedAt,
		)
	}

	return rows
}

// PublishedMessage is one call recorded by MockProducer.
type PublishedMessage struct {
	Subject string
	Data    []byte
}

// MockProducer records published messages. Err, when set, is returned by
// every Publish call.
type MockProducer struct {
	mu       sync.Mutex
	Messages []PublishedMessage
	Err      error
	Closed   bool
}

func (p *MockProducer) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, PublishedMessage{Subject: subject, Data: data})
	return nil
}

func (p *MockProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
}

func (p *MockProducer) Published() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.Messages...)
}
