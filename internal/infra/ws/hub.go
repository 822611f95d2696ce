package ws

import (
	"log/slog"
	"sync"

	"kisansetu/internal/app/dto"
	domainchat "kisansetu/internal/domain/chat"
)

// Event names shared with the browser client.
const (
	EventJoin           = "join"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventMessageSent    = "message_sent"
	EventMessageError   = "message_error"
)

// Session is one live connection's outbound side. Push must not block; a
// session that cannot keep up drops events rather than stalling the hub.
type Session interface {
	Push(event string, payload any)
}

// Hub is the process-wide registry of live connections keyed by user id.
// A user may hold any number of concurrent sessions (tabs); all of them
// receive every event addressed to that user. Membership is owned here
// explicitly rather than living in framework globals.
type Hub struct {
	mu      sync.RWMutex
	members map[string]map[Session]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		members: make(map[string]map[Session]struct{}),
		logger:  logger,
	}
}

// Join subscribes the session under userID. Joining an already-joined user
// adds another session; there is no per-user connection limit.
func (h *Hub) Join(userID string, s Session) {
	if userID == "" || s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.members[userID]
	if !ok {
		set = make(map[Session]struct{})
		h.members[userID] = set
	}
	set[s] = struct{}{}
	if h.logger != nil {
		h.logger.Debug("ws join", "user_id", userID, "sessions", len(set))
	}
}

// Leave drops the session; the user's entry is pruned when the last session
// goes, and rejoining recreates it.
func (h *Hub) Leave(userID string, s Session) {
	if userID == "" || s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.members[userID]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.members, userID)
	}
}

// Emit delivers an event to every session of userID and reports how many
// sessions were addressed. Zero subscribers is not an error; the event is
// simply lost and the user catches up on the next fetch.
func (h *Hub) Emit(userID, event string, payload any) int {
	h.mu.RLock()
	sessions := make([]Session, 0, 4)
	for s := range h.members[userID] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.Push(event, payload)
	}
	return len(sessions)
}

// Sessions reports the number of live sessions for a user.
func (h *Hub) Sessions(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members[userID])
}

// MessageReceived implements the chat service Notifier: the receiver's
// sessions get the persisted message as a receive_message event.
func (h *Hub) MessageReceived(receiverID string, msg domainchat.Message) {
	h.Emit(receiverID, EventReceiveMessage, dto.NewMessage(msg))
}

// MessageSent echoes the persisted message back to the sender's sessions so
// other tabs stay in sync.
func (h *Hub) MessageSent(senderID string, msg domainchat.Message) {
	h.Emit(senderID, EventMessageSent, dto.NewMessage(msg))
}
