package ws

import (
	"encoding/json"
	"log"

	"github.com/dkovac/chatter/internal/presence"
	"github.com/dkovac/chatter/internal/service"
	"github.com/google/uuid"
)

// Hub manages all active WebSocket connections and owns the presence
// registry's lifecycle. Connections are keyed by a per-connection id, never
// by user id: the same account in two tabs is two clients and two roster
// entries.
type Hub struct {
	registry *presence.Registry
	chat     *service.ChatService

	clients map[uuid.UUID]*Client

	register     chan *Client
	unregister   chan *Client
	authenticate chan authRequest
	broadcast    chan *broadcastMsg
}

type authRequest struct {
	client *Client
	snap   presence.Snapshot
}

type broadcastMsg struct {
	data      []byte
	excludeID *uuid.UUID // optional: skip this connection (e.g. sender)
}

func NewHub(registry *presence.Registry) *Hub {
	return &Hub{
		registry:     registry,
		clients:      make(map[uuid.UUID]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		authenticate: make(chan authRequest),
		broadcast:    make(chan *broadcastMsg, 256),
	}
}

// SetChatService wires the message pipeline that inbound chat events are
// handed to.
func (h *Hub) SetChatService(chat *service.ChatService) {
	h.chat = chat
}

// Run starts the Hub's main event loop. Call this in a goroutine. All
// roster mutations happen here, one event at a time.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			log.Printf("ws hub: connection %s opened (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; !ok {
				continue
			}
			delete(h.clients, client.id)
			close(client.send)
			close(client.done)
			log.Printf("ws hub: connection %s closed (%d total)", client.id, len(h.clients))

			// A connection that never authenticated leaves no trace.
			snap, ok := h.registry.Remove(client.id)
			if !ok {
				continue
			}
			h.fanOutEvent(EventUserLeft, snap.Username, nil)
			h.fanOutEvent(EventActiveUsers, h.registry.List(), nil)

		case req := <-h.authenticate:
			h.registry.Add(req.client.id, req.snap)
			log.Printf("ws hub: %s authenticated on %s", req.snap.Username, req.client.id)

			h.fanOutEvent(EventUserJoined, req.snap.Username, &req.client.id)
			h.fanOutEvent(EventActiveUsers, h.registry.List(), nil)

		case msg := <-h.broadcast:
			h.fanOut(msg.data, msg.excludeID)
		}
	}
}

// BroadcastAll queues an event for delivery to every live connection.
func (h *Hub) BroadcastAll(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{data: data}
}

// fanOutEvent builds an event and delivers it synchronously on the hub loop.
func (h *Hub) fanOutEvent(eventType string, payload any, excludeID *uuid.UUID) {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.fanOut(data, excludeID)
}

func (h *Hub) fanOut(data []byte, excludeID *uuid.UUID) {
	for id, client := range h.clients {
		if excludeID != nil && id == *excludeID {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client buffer full - disconnect
			delete(h.clients, id)
			close(client.send)
			close(client.done)
			h.registry.Remove(id)
		}
	}
}
