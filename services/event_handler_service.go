package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"gorm.io/gorm/clause"

	"notesai/notesai/broker"
	"notesai/notesai/database"
	"notesai/notesai/models"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents() int
}

// EventHandlerService publishes the rows of the events outbox.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer, interval time.Duration) *EventHandlerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: interval,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stopChan, s.done)
	log.Printf("Event dispatcher started (interval %s)", s.interval)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
	log.Println("Event dispatcher stopped")
}

func (s *EventHandlerService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.ProcessPendingEvents()
		}
	}
}

// ProcessPendingEvents publishes undispatched events in creation order and
// returns how many were dispatched. Events that fail stay pending.
func (s *EventHandlerService) ProcessPendingEvents() int {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Limit(eventBatchSize).
		Find(&events).Error; err != nil {
		log.Printf("Error fetching events: %v", err)
		return 0
	}

	if len(events) > 0 {
		log.Printf("Found %d pending events to process", len(events))
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Printf("Error dispatching event %s: %v", event.ID, err)
			continue
		}
		dispatched++
	}
	return dispatched
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	data, err := json.Marshal(BuildEventMessage(event))
	if err != nil {
		return err
	}

	if err := s.producer.Publish(broker.SubjectForEntity(event.Entity), data); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&event).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        "completed",
	}).Error
}

// BuildEventMessage wraps an outbox row in the published envelope. Owner and
// note ids are promoted so consumers can route without reading data.
func BuildEventMessage(event models.Event) broker.EventMessage {
	var dataMap map[string]interface{}
	if err := json.Unmarshal(event.Data, &dataMap); err != nil || dataMap == nil {
		dataMap = make(map[string]interface{})
	}

	payload := broker.EventPayload{
		EventID:   event.ID.String(),
		Timestamp: event.Timestamp,
		Entity:    event.Entity,
		Operation: event.Operation,
		ActorID:   event.ActorID,
		Data:      dataMap,
	}
	if userID, ok := dataMap["user_id"].(string); ok {
		payload.UserID = userID
	}
	if noteID, ok := dataMap["note_id"].(string); ok {
		payload.NoteID = noteID
	}

	return broker.EventMessage{
		Type:    broker.EventType(event.Event),
		Payload: payload,
	}
}

var EventHandlerServiceInstance EventHandlerServiceInterface
