package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dkovac/chatter/internal/config"
	"github.com/dkovac/chatter/internal/domain"
	"github.com/dkovac/chatter/internal/presence"
	"github.com/dkovac/chatter/internal/repository"
	"github.com/google/uuid"
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	BroadcastMessage(msg *domain.Message)
}

// ChatService is the message pipeline: it validates an inbound event against
// presence state, builds the canonical record, persists it, and fans it out.
//
// Persistence and broadcast are two independent steps. A single worker
// goroutine serializes store appends in submission order, so store ids match
// timestamp order. Under the default broadcast-first policy the fan-out does
// not wait for the append: a store outage means live clients still see the
// message while later history misses it. persist-first waits for the append
// first, but a failed append still broadcasts — store failures are logged,
// never surfaced to the sender.
type ChatService struct {
	messages     repository.MessageRepository
	presence     *presence.Registry
	notifier     Notifier
	persistFirst bool

	mu      sync.Mutex
	cond    *sync.Cond
	lastTS  time.Time
	backlog []*persistReq
	closed  bool

	workerDone chan struct{}
}

type persistReq struct {
	msg  *domain.Message
	done chan struct{}
}

// AttachmentInput is the client-supplied payload of an attachmentMessage
// event. It echoes the metadata returned by the upload endpoint; the pipeline
// does not verify that the URL matches a real upload.
type AttachmentInput struct {
	Message       string `json:"message"`
	URL           string `json:"attachmentUrl"`
	Name          string `json:"attachmentName"`
	Size          int64  `json:"attachmentSize"`
	Icon          string `json:"attachmentIcon"`
	FormattedSize string `json:"formattedSize"`
}

func NewChatService(messages repository.MessageRepository, reg *presence.Registry, policy string) *ChatService {
	s := &ChatService{
		messages:     messages,
		presence:     reg,
		persistFirst: policy == config.PolicyPersistFirst,
		workerDone:   make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.persistLoop()
	return s
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Close drains the persist backlog and stops the worker. Submits racing the
// shutdown are dropped; Close is safe to call more than once.
func (s *ChatService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.cond.Signal()
	}
	s.mu.Unlock()
	<-s.workerDone
}

// SubmitText handles a chatMessage event. Events from connections without a
// presence entry are dropped without a reply, as are empty or whitespace-only
// texts.
func (s *ChatService) SubmitText(connID uuid.UUID, text string) {
	snap, ok := s.presence.Get(connID)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.dispatch(&domain.Message{
		UserID:     snap.UserID,
		Username:   snap.Username,
		Text:       text,
		ProfilePic: snap.ProfilePic,
		Type:       domain.MessageTypeText,
	})
}

// SubmitAttachment handles an attachmentMessage event. An empty caption is
// valid here, but a payload without an attachment URL is dropped: a record is
// an attachment message exactly when it carries a reference.
func (s *ChatService) SubmitAttachment(connID uuid.UUID, input AttachmentInput) {
	snap, ok := s.presence.Get(connID)
	if !ok {
		return
	}

	if input.URL == "" {
		log.Printf("chat: dropping attachment message without url from %s", snap.Username)
		return
	}

	s.dispatch(&domain.Message{
		UserID:     snap.UserID,
		Username:   snap.Username,
		Text:       input.Message,
		ProfilePic: snap.ProfilePic,
		Type:       domain.MessageTypeAttachment,
		Attachment: &domain.Attachment{
			URL:           input.URL,
			OriginalName:  input.Name,
			SizeBytes:     input.Size,
			IconGlyph:     input.Icon,
			FormattedSize: input.FormattedSize,
		},
	})
}

// History returns the most recent messages, oldest first. The limit is
// capped at 100.
func (s *ChatService) History(ctx context.Context, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	messages, err := s.messages.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *ChatService) dispatch(msg *domain.Message) {
	req := &persistReq{msg: msg, done: make(chan struct{})}

	// Timestamp assignment, the broadcast copy, and the enqueue happen under
	// one lock: the worker appends in timestamp order, and it cannot pick up
	// msg before the lock is released, so the copy is taken before its store
	// id is ever written. The backlog is unbounded and the append runs
	// outside the lock, so a slow store never stalls a submit.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Printf("chat: dropping message from %s: pipeline closed", msg.Username)
		return
	}
	msg.Timestamp = s.nextTimestamp()
	out := *msg
	s.backlog = append(s.backlog, req)
	s.cond.Signal()
	s.mu.Unlock()

	if s.persistFirst {
		<-req.done
		if s.notifier != nil {
			s.notifier.BroadcastMessage(msg)
		}
		return
	}

	// The worker owns msg from here on and will set its store id; the copy
	// keeps the fan-out clear of that write. The live record therefore
	// carries no id, only history reads do.
	if s.notifier != nil {
		s.notifier.BroadcastMessage(&out)
	}
}

// nextTimestamp returns a strictly increasing server time. Callers must hold
// s.mu.
func (s *ChatService) nextTimestamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastTS) {
		now = s.lastTS.Add(time.Millisecond)
	}
	s.lastTS = now
	return now
}

func (s *ChatService) persistLoop() {
	defer close(s.workerDone)
	for {
		s.mu.Lock()
		for len(s.backlog) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.backlog) == 0 {
			s.mu.Unlock()
			return
		}
		req := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.mu.Unlock()

		id, err := s.messages.Append(context.Background(), req.msg)
		if err != nil {
			log.Printf("chat: persisting message from %s: %v", req.msg.Username, err)
		} else {
			req.msg.ID = id
		}
		close(req.done)
	}
}
