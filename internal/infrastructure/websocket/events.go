package websocket

import (
	"encoding/json"
	"time"

	"myshop/internal/domain/entity"
	"myshop/pkg/logger"
)

// Wire event names. Message creation never happens over the socket; the only
// client events are room binding and keepalive, everything else flows through
// the HTTP send endpoint and comes back as a newMessage push.
const (
	EventJoin       = "join"
	EventPing       = "ping"
	EventPong       = "pong"
	EventNewMessage = "newMessage"
	EventError      = "error"
)

type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type joinData struct {
	ParticipantID string `json:"participant_id"`
}

// NewMessageEnvelope wraps a persisted message for a room push.
func NewMessageEnvelope(message interface{}) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Event:     EventNewMessage,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// PushNewMessage emits a persisted message into a participant's room.
func (m *Manager) PushNewMessage(participantID string, message *entity.ChatMessage) {
	payload, err := NewMessageEnvelope(message)
	if err != nil {
		logger.Error("Failed to marshal newMessage push for %s: %v", participantID, err)
		return
	}
	m.EmitToRoom(participantID, payload)
}

// HandleClientEvent processes one inbound client frame.
func (m *Manager) HandleClientEvent(client *Client, payload []byte) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		logger.Warn("Malformed frame from %s: %v", client.UserID, err)
		m.sendError(client, "Invalid message format")
		return
	}

	switch envelope.Event {
	case EventPing:
		m.sendEvent(client, EventPong, nil)

	case EventJoin:
		var join joinData
		if len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, &join); err != nil {
				m.sendError(client, "Invalid join payload")
				return
			}
		}
		if join.ParticipantID == "" {
			join.ParticipantID = client.UserID
		}
		if join.ParticipantID != client.UserID {
			m.sendError(client, "Cannot join another participant's room")
			return
		}
		m.JoinRoom(client, join.ParticipantID)
		logger.Info("Client %s joined room %s", client.UserID, join.ParticipantID)

	default:
		logger.Warn("Unknown event %q from %s", envelope.Event, client.UserID)
		m.sendError(client, "Unknown event type")
	}
}

func (m *Manager) sendEvent(client *Client, event string, data interface{}) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			logger.Error("Failed to marshal %s event for %s: %v", event, client.UserID, err)
			return
		}
		raw = encoded
	}

	payload, err := json.Marshal(Envelope{
		Event:     event,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to marshal envelope for %s: %v", client.UserID, err)
		return
	}

	if !m.trySend(client, payload) {
		logger.Warn("Client %s send buffer full, dropping connection", client.UserID)
		m.removeClient(client)
	}
}

func (m *Manager) sendError(client *Client, message string) {
	m.sendEvent(client, EventError, map[string]string{"error": message})
}
