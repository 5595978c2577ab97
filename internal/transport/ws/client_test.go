package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkovac/chatter/internal/config"
	"github.com/dkovac/chatter/internal/domain"
	"github.com/dkovac/chatter/internal/presence"
	"github.com/dkovac/chatter/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memMessageRepo struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (r *memMessageRepo) Append(_ context.Context, msg *domain.Message) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *msg
	cp.ID = int64(len(r.msgs) + 1)
	r.msgs = append(r.msgs, cp)
	return cp.ID, nil
}

func (r *memMessageRepo) ListRecent(_ context.Context, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.msgs...), nil
}

func (r *memMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func clientEvent(t *testing.T, eventType string, payload any) *Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Event{Type: eventType, Payload: data}
}

func newWiredHub(t *testing.T) (*Hub, *memMessageRepo, *service.ChatService) {
	t.Helper()
	reg := presence.NewRegistry()
	hub := NewHub(reg)
	repo := &memMessageRepo{}
	chat := service.NewChatService(repo, reg, config.PolicyBroadcastFirst)
	hub.SetChatService(chat)
	chat.SetNotifier(NewHubNotifier(hub))
	go hub.Run()
	return hub, repo, chat
}

func TestChatMessageFlowsToAllIncludingSender(t *testing.T) {
	hub, repo, chat := newWiredHub(t)
	c1 := connect(hub)
	c2 := connect(hub)

	c1.handleEvent(clientEvent(t, EventAuthenticate, AuthenticatePayload{UserID: 1, Username: "alice"}))
	recvEvent(t, c1) // roster
	recvEvent(t, c2) // joined
	recvEvent(t, c2) // roster

	c1.handleEvent(clientEvent(t, EventChatMessage, ChatMessagePayload{Message: "hello room"}))

	for _, c := range []*Client{c1, c2} {
		evt := recvEvent(t, c)
		require.Equal(t, EventChatMessage, evt.Type)
		var msg domain.Message
		require.NoError(t, json.Unmarshal(evt.Payload, &msg))
		assert.Equal(t, "hello room", msg.Text)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, domain.MessageTypeText, msg.Type)
	}

	chat.Close()
	assert.Equal(t, 1, repo.count())
}

func TestChatMessageBeforeAuthenticateIsDropped(t *testing.T) {
	hub, repo, chat := newWiredHub(t)
	c1 := connect(hub)
	c2 := connect(hub)

	c1.handleEvent(clientEvent(t, EventChatMessage, ChatMessagePayload{Message: "sneaky"}))

	requireNoEvent(t, c1)
	requireNoEvent(t, c2)
	chat.Close()
	assert.Zero(t, repo.count())
}

func TestMalformedAuthenticateIsDropped(t *testing.T) {
	hub, _, chat := newWiredHub(t)
	defer chat.Close()
	c1 := connect(hub)
	c2 := connect(hub)

	c1.handleEvent(clientEvent(t, EventAuthenticate, AuthenticatePayload{UserID: 0, Username: ""}))
	c1.handleEvent(&Event{Type: EventAuthenticate, Payload: json.RawMessage(`"not an object"`)})

	requireNoEvent(t, c1)
	requireNoEvent(t, c2)
}

func TestAttachmentMessageFlow(t *testing.T) {
	hub, repo, chat := newWiredHub(t)
	c1 := connect(hub)

	c1.handleEvent(clientEvent(t, EventAuthenticate, AuthenticatePayload{UserID: 1, Username: "alice"}))
	recvEvent(t, c1) // roster

	c1.handleEvent(clientEvent(t, EventAttachmentMessage, service.AttachmentInput{
		URL:           "/attachments/abc.pdf",
		Name:          "report.pdf",
		Size:          2097152,
		Icon:          "📄",
		FormattedSize: "2 MB",
	}))

	evt := recvEvent(t, c1)
	require.Equal(t, EventChatMessage, evt.Type)
	var msg domain.Message
	require.NoError(t, json.Unmarshal(evt.Payload, &msg))
	assert.Equal(t, domain.MessageTypeAttachment, msg.Type)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "report.pdf", msg.Attachment.OriginalName)
	assert.Equal(t, "2 MB", msg.Attachment.FormattedSize)

	chat.Close()
	assert.Equal(t, 1, repo.count())
}

func TestPingPong(t *testing.T) {
	hub, _, chat := newWiredHub(t)
	defer chat.Close()
	c1 := connect(hub)

	c1.handleEvent(&Event{Type: EventPing})

	evt := recvEvent(t, c1)
	assert.Equal(t, EventPong, evt.Type)
}
