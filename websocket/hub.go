package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
	notifyBuffer   = 256
)

// Hub routes events to every open connection of a student
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan studentEvent
	replies    chan clientFrame
	mu         sync.RWMutex
}

type Client struct {
	Hub          *Hub
	Conn         *websocket.Conn
	Send         chan []byte
	StudentID    string
	ConnectionID string
}

// Event is the JSON frame pushed to clients
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Message struct {
	Type string `json:"type"` // "ping"
}

type studentEvent struct {
	studentID string
	frame     []byte
}

type clientFrame struct {
	client *Client
	frame  []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan studentEvent, notifyBuffer),
		replies:    make(chan clientFrame, notifyBuffer),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.StudentID] == nil {
				h.clients[client.StudentID] = make(map[*Client]bool)
			}
			h.clients[client.StudentID][client] = true
			h.mu.Unlock()
			slog.Info("Client registered", "student_id", client.StudentID, "connection_id", client.ConnectionID)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			slog.Info("Client unregistered", "student_id", client.StudentID, "connection_id", client.ConnectionID)

		case ev := <-h.events:
			h.mu.Lock()
			for client := range h.clients[ev.studentID] {
				select {
				case client.Send <- ev.frame:
				default:
					slog.Warn("Dropping slow client", "student_id", client.StudentID, "connection_id", client.ConnectionID)
					h.remove(client)
				}
			}
			h.mu.Unlock()

		case r := <-h.replies:
			h.mu.RLock()
			if h.clients[r.client.StudentID][r.client] {
				select {
				case r.client.Send <- r.frame:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.StudentID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.StudentID)
	}
}

// Notify queues an event for studentID without blocking the caller.
// Events are dropped when the queue is full or the student has no open connection.
func (h *Hub) Notify(studentID, event string, payload any) {
	frame, err := json.Marshal(Event{Type: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		slog.Error("Failed to marshal event", "error", err, "event", event)
		return
	}

	select {
	case h.events <- studentEvent{studentID: studentID, frame: frame}:
	default:
		slog.Warn("Notification queue full, dropping event", "student_id", studentID, "event", event)
	}
}

// Connections reports how many connections studentID has open
func (h *Hub) Connections(studentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[studentID])
}

func (h *Hub) RegisterClient(conn *websocket.Conn, studentID string) *Client {
	client := &Client{
		Hub:          h,
		Conn:         conn,
		Send:         make(chan []byte, sendBuffer),
		StudentID:    studentID,
		ConnectionID: uuid.New().String(),
	}

	h.register <- client
	return client
}

// ReadPump only answers pings; notifications flow server to client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Error("Failed to unmarshal message", "error", err)
			continue
		}

		switch msg.Type {
		case "ping":
			c.reply(Event{Type: "pong", Timestamp: time.Now().UTC()})
		default:
			slog.Warn("Unknown message type", "type", msg.Type)
		}
	}
}

// reply goes through the hub so it never races the hub closing Send
func (c *Client) reply(ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.Hub.replies <- clientFrame{client: c, frame: frame}:
	default:
	}
}

func (c *Client) WritePump() {
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
