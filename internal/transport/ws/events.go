package ws

import (
	"encoding/json"
	"time"
)

// Event types - Client → Server
const (
	EventAuthenticate      = "authenticate"
	EventChatMessage       = "chatMessage"
	EventAttachmentMessage = "attachmentMessage"
	EventPing              = "ping"
)

// Event types - Server → Client. EventChatMessage is reused: the server
// echoes the full message record under the same name.
const (
	EventActiveUsers = "activeUsers"
	EventUserJoined  = "userJoined"
	EventUserLeft    = "userLeft"
	EventPong        = "pong"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// AuthenticatePayload carries the user record the client received at login.
// The gateway validates its shape only; the identity was verified upstream by
// the login endpoint.
type AuthenticatePayload struct {
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
	IsAdmin    bool   `json:"isAdmin"`
}

type ChatMessagePayload struct {
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
