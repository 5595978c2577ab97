package ws

import (
	"log"

	"github.com/dkovac/chatter/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// BroadcastMessage fans a message record out to every connection, the sender
// included, so the sender's own view is server-confirmed.
func (n *HubNotifier) BroadcastMessage(msg *domain.Message) {
	evt, err := NewEvent(EventChatMessage, msg)
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastAll(evt)
}
