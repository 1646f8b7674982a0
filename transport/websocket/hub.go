package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with a write lock; gorilla connections do
// not allow concurrent writers.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) send(action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// hub tracks live connections and their room membership for broadcasts.
type hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (that *hub) register(sessionID string, cl *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[sessionID] = cl
}

func (that *hub) unregister(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, sessionID)

	for code, members := range that.rooms {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(that.rooms, code)
		}
	}
}

func (that *hub) joinRoom(roomCode, sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		that.rooms[roomCode] = members
	}

	members[sessionID] = struct{}{}
}

// sendTo - delivers one event to one session; a missing session is a
// gone connection and is ignored.
func (that *hub) sendTo(sessionID, action string, payload any) {
	that.mu.Lock()
	cl, ok := that.clients[sessionID]
	that.mu.Unlock()

	if !ok {
		return
	}

	if err := cl.send(action, payload); err != nil {
		that.logger.Error("failed to send event", "action", action, "error", err)
	}
}

// broadcast - delivers one event to every session in a room.
func (that *hub) broadcast(roomCode, action string, payload any) {
	that.mu.Lock()

	targets := make([]*client, 0, len(that.rooms[roomCode]))
	for sessionID := range that.rooms[roomCode] {
		if cl, ok := that.clients[sessionID]; ok {
			targets = append(targets, cl)
		}
	}

	that.mu.Unlock()

	for _, cl := range targets {
		if err := cl.send(action, payload); err != nil {
			that.logger.Error("failed to broadcast event", "action", action, "roomCode", roomCode, "error", err)
		}
	}
}
