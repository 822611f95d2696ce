package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrSenderRequired   = errors.New("chat: sender is required")
	ErrReceiverRequired = errors.New("chat: receiver is required")
	ErrBodyRequired     = errors.New("chat: message body is required")
	ErrSelfConversation = errors.New("chat: sender and receiver must differ")
)

// Message is a single chat message between two users. Messages are
// append-only: once stored they are never updated or deleted.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	ReceiverID     string
	ListingID      string
	Body           string
	CreatedAt      time.Time
}

// ConversationID derives the pair key for two participants. The ids are
// sorted before joining, so ConversationID(a, b) == ConversationID(b, a)
// and either side can compute it without a lookup.
func ConversationID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// Counterpart returns the participant of m that is not userID.
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

type CreateParams struct {
	ID         string
	SenderID   string
	ReceiverID string
	ListingID  string
	Body       string
	Now        time.Time
}

// NewMessage validates params and builds a message with its conversation id
// computed once at creation. The listing reference is optional and is not
// checked against the listings store; a dangling id is tolerated.
func NewMessage(params CreateParams) (*Message, error) {
	sender := strings.TrimSpace(params.SenderID)
	if sender == "" {
		return nil, ErrSenderRequired
	}
	receiver := strings.TrimSpace(params.ReceiverID)
	if receiver == "" {
		return nil, ErrReceiverRequired
	}
	if sender == receiver {
		return nil, ErrSelfConversation
	}
	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, ErrBodyRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Message{
		ID:             params.ID,
		ConversationID: ConversationID(sender, receiver),
		SenderID:       sender,
		ReceiverID:     receiver,
		ListingID:      strings.TrimSpace(params.ListingID),
		Body:           body,
		CreatedAt:      now.UTC(),
	}, nil
}

// Repository is the message store. Conversation returns both directions of
// the pair ordered oldest first; AllForUser returns every message the user
// sent or received ordered newest first.
type Repository interface {
	Append(ctx context.Context, msg *Message) error
	Conversation(ctx context.Context, userA, userB string) ([]Message, error)
	AllForUser(ctx context.Context, userID string) ([]Message, error)
}
