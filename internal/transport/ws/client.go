package ws

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/dkovac/chatter/internal/presence"
	"github.com/dkovac/chatter/internal/service"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection. Its id is the opaque
// connection identity used to key presence entries.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   uuid.UUID

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		id:   uuid.New(),
		send: make(chan []byte, sendBufSize),
		done: make(chan struct{}),
	}
}

// ReadPump reads events from the WebSocket until the connection drops, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: connection %s disconnected", c.id)
			} else {
				log.Printf("ws: read error on %s: %v", c.id, err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error on %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error on %s: %v", c.id, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event. Malformed payloads and chat
// events from unauthenticated connections are dropped without a reply; the
// pipeline re-checks presence itself, this is the first line.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventAuthenticate:
		var p AuthenticatePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			log.Printf("ws: dropping malformed authenticate on %s: %v", c.id, err)
			return
		}
		if p.UserID <= 0 || strings.TrimSpace(p.Username) == "" {
			log.Printf("ws: dropping authenticate with missing identity on %s", c.id)
			return
		}
		c.hub.authenticate <- authRequest{
			client: c,
			snap: presence.Snapshot{
				ConnID:     c.id,
				UserID:     p.UserID,
				Username:   p.Username,
				ProfilePic: p.ProfilePic,
				IsAdmin:    p.IsAdmin,
			},
		}

	case EventChatMessage:
		var p ChatMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return
		}
		c.hub.chat.SubmitText(c.id, p.Message)

	case EventAttachmentMessage:
		var p service.AttachmentInput
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return
		}
		c.hub.chat.SubmitAttachment(c.id, p)

	case EventPing:
		c.sendPong()

	default:
		log.Printf("ws: ignoring unknown event %q on %s", event.Type, c.id)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventPong})
	select {
	case c.send <- data:
	default:
	}
}
