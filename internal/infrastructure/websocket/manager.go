package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"myshop/pkg/logger"
)

// Client represents one WebSocket connection. A participant with several
// open tabs has several clients.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager routes real-time payloads to rooms. A room is the set of live
// connections bound to one participant id; membership is in-memory only and
// rebuilt from scratch on every connection.
type Manager struct {
	rooms      map[string]map[*Client]bool
	membership map[*Client]map[string]bool
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms:      make(map[string]map[*Client]bool),
		membership: make(map[*Client]map[string]bool),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's disconnect loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Unregister:
				m.removeClient(client)
				logger.Info("Client disconnected: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// RegisterClient makes a connection routable. Registration completes before
// this returns, so a join frame racing the handshake cannot observe an
// unregistered client.
func (m *Manager) RegisterClient(client *Client) {
	m.mutex.Lock()
	m.membership[client] = make(map[string]bool)
	m.mutex.Unlock()
	logger.Info("Client connected: %s", client.UserID)
}

// JoinRoom binds a connection to a participant's room. Joining twice is a
// no-op, and a connection may be in several rooms at once.
func (m *Manager) JoinRoom(client *Client, participantID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.membership[client]; !ok {
		// Not registered (already disconnected); nothing to join.
		return
	}

	if m.rooms[participantID] == nil {
		m.rooms[participantID] = make(map[*Client]bool)
	}
	m.rooms[participantID][client] = true
	m.membership[client][participantID] = true
}

// EmitToRoom delivers payload to every connection currently in the room.
// Delivery is best-effort: an empty room is the normal state for an offline
// participant, and a client that cannot keep up is dropped.
func (m *Manager) EmitToRoom(participantID string, payload []byte) {
	// The sends happen under the read lock: removeClient closes Send only
	// under the write lock, so a channel in the room cannot close mid-send.
	// The sends never block, so holding the lock across them is safe.
	m.mutex.RLock()
	var stalled []*Client
	for client := range m.rooms[participantID] {
		select {
		case client.Send <- payload:
		default:
			stalled = append(stalled, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range stalled {
		logger.Warn("Client %s send buffer full, dropping connection", client.UserID)
		m.removeClient(client)
	}
}

// trySend delivers payload to a single registered client without blocking.
// Same locking rule as EmitToRoom. Reports false when the client's buffer is
// full and it should be dropped.
func (m *Manager) trySend(client *Client, payload []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if _, ok := m.membership[client]; !ok {
		// Already unregistered; its Send channel may be closed.
		return true
	}

	select {
	case client.Send <- payload:
		return true
	default:
		return false
	}
}

// RoomSize reports how many connections are currently in a room.
func (m *Manager) RoomSize(participantID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[participantID])
}

func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	joined, ok := m.membership[client]
	if !ok {
		return
	}

	for participantID := range joined {
		delete(m.rooms[participantID], client)
		if len(m.rooms[participantID]) == 0 {
			delete(m.rooms, participantID)
		}
	}
	delete(m.membership, client)
	close(client.Send)
}

// ReadPump reads client events until the connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Unexpected close from %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientEvent(c, payload)
	}
}

// WritePump flushes the client's send buffer to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("Write to %s failed: %v", c.UserID, err)
			return
		}
	}
}
