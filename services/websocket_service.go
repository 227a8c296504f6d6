package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"notesai/notesai/broker"
	"notesai/notesai/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WebSocketServiceInterface defines the operations provided by the WebSocket service
type WebSocketServiceInterface interface {
	Start()
	Stop()
	HandleConnection(c *gin.Context)
	SetInputChannel(ch <-chan broker.Message)
	ClientCount() int
}

// Client is one live-update connection. Clients only ever receive events of
// the user they authenticated as.
type Client struct {
	ID     string
	UserID string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte

	mu            sync.Mutex
	subscriptions map[string]bool
}

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type WebSocketService struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	upgrader websocket.Upgrader
	input    <-chan broker.Message

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
}

func NewWebSocketService(allowedOrigins []string) *WebSocketService {
	return &WebSocketService{
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if candidate == "*" || candidate == origin {
				return true
			}
		}
		return false
	}
}

// SetInputChannel sets the source of broker messages. It must be called
// before Start.
func (ws *WebSocketService) SetInputChannel(ch <-chan broker.Message) {
	ws.input = ch
}

func (ws *WebSocketService) Start() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.isRunning {
		return
	}
	ws.isRunning = true
	ws.stopChan = make(chan struct{})

	go ws.run(ws.stopChan)
	log.Println("WebSocket hub started")
}

func (ws *WebSocketService) Stop() {
	ws.mu.Lock()
	if !ws.isRunning {
		ws.mu.Unlock()
		return
	}
	ws.isRunning = false
	close(ws.stopChan)
	ws.mu.Unlock()

	ws.clientsMutex.Lock()
	for id, client := range ws.clients {
		if client.Conn != nil {
			client.Conn.Close()
		}
		close(client.Send)
		delete(ws.clients, id)
	}
	ws.clientsMutex.Unlock()

	log.Println("WebSocket hub stopped")
}

func (ws *WebSocketService) ClientCount() int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients)
}

func (ws *WebSocketService) run(stop <-chan struct{}) {
	input := ws.input
	for {
		select {
		case <-stop:
			return

		case msg, ok := <-input:
			if !ok {
				log.Println("Broker channel closed, live updates stopped")
				input = nil
				continue
			}
			ws.handleBrokerMessage(msg)
		}
	}
}

func (ws *WebSocketService) addClient(client *Client) {
	ws.clientsMutex.Lock()
	ws.clients[client.ID] = client
	ws.clientsMutex.Unlock()
	log.Printf("Client connected: %s (user: %s)", client.ID, client.UserID)
}

func (ws *WebSocketService) removeClient(id string) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	if client, ok := ws.clients[id]; ok {
		delete(ws.clients, id)
		close(client.Send)
		log.Printf("Client disconnected: %s", id)
	}
}

// HandleConnection upgrades an authenticated request to a WebSocket.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	userID, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &Client{
		ID:            uuid.New().String(),
		UserID:        userID.(uuid.UUID).String(),
		Hub:           ws,
		Conn:          conn,
		Send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[string]bool),
	}

	ws.addClient(client)

	go client.readPump()
	go client.writePump()
}

// handleBrokerMessage routes an event to the connections of its owner.
func (ws *WebSocketService) handleBrokerMessage(msg broker.Message) {
	var event broker.EventMessage
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error parsing broker message on %s: %v", msg.Subject, err)
		return
	}

	owner := event.Payload.UserID
	if owner == "" {
		owner = event.Payload.ActorID
	}
	if owner == "" {
		return
	}

	frame := models.NewStandardMessage(models.EventMessage, string(event.Type), event.Payload).
		WithResource(event.Payload.Entity, event.Payload.NoteID)
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Error serializing server message: %v", err)
		return
	}

	var stale []string
	sent := 0

	ws.clientsMutex.RLock()
	for id, client := range ws.clients {
		if client.UserID != owner || !client.wants(event.Payload.Entity, event.Payload.NoteID) {
			continue
		}
		select {
		case client.Send <- data:
			sent++
		default:
			stale = append(stale, id)
		}
	}
	ws.clientsMutex.RUnlock()

	for _, id := range stale {
		log.Printf("Client %s send buffer full, removing client", id)
		ws.removeClient(id)
	}

	log.Printf("Sent %s event to %d clients", event.Type, sent)
}

// wants reports whether the client asked for events of this resource. A
// client without subscriptions receives everything of its user.
func (c *Client) wants(resourceType, resourceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.subscriptions) == 0 || c.subscriptions["all"] || c.subscriptions[resourceType] || c.subscriptions[resourceType+"s"] {
		return true
	}
	return resourceID != "" && c.subscriptions[resourceType+":"+resourceID]
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.removeClient(c.ID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading from WebSocket: %v", err)
			}
			return
		}
		c.processMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(msg []byte) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(msg, &clientMsg); err != nil {
		log.Printf("Error parsing client message: %v", err)
		c.reply(models.NewStandardMessage(models.ErrorMessage, "", map[string]string{"message": "invalid message"}))
		return
	}

	switch clientMsg.Type {
	case "subscribe", "unsubscribe":
		c.handleSubscription(clientMsg)
	case "ping":
		c.reply(models.NewStandardMessage(models.PongMessage, "", nil))
	default:
		log.Printf("Unknown message type: %s", clientMsg.Type)
	}
}

func (c *Client) handleSubscription(msg ClientMessage) {
	var payload struct {
		Resource string `json:"resource"`
		ID       string `json:"id,omitempty"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Resource == "" {
		c.reply(models.NewStandardMessage(models.ErrorMessage, "", map[string]string{"message": "invalid subscription"}))
		return
	}

	key := payload.Resource
	if payload.ID != "" {
		key = payload.Resource + ":" + payload.ID
	}

	c.mu.Lock()
	if msg.Type == "subscribe" {
		c.subscriptions[key] = true
	} else {
		delete(c.subscriptions, key)
	}
	c.mu.Unlock()

	event := "confirmed"
	if msg.Type == "unsubscribe" {
		event = "removed"
	}
	c.reply(models.NewStandardMessage(models.SubscriptionMessage, event, payload))
}

func (c *Client) reply(frame *models.StandardMessage) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	c.Hub.clientsMutex.RLock()
	defer c.Hub.clientsMutex.RUnlock()
	if _, ok := c.Hub.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

var WebSocketServiceInstance WebSocketServiceInterface
