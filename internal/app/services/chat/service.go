package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainchat "kisansetu/internal/domain/chat"
	domainuser "kisansetu/internal/domain/user"
)

// Notifier pushes a persisted message to the live connections of a user.
// Delivery is best-effort: a user with no connections simply misses the push
// and catches up on the next conversation fetch.
type Notifier interface {
	MessageReceived(receiverID string, msg domainchat.Message)
	MessageSent(senderID string, msg domainchat.Message)
}

// EventPublisher emits message lifecycle events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Service is the single entry point for sending and reading messages. Both
// the HTTP route and the websocket event handler go through Send, so
// validation, persistence and live delivery cannot diverge between paths.
type Service struct {
	Messages domainchat.Repository
	Users    domainuser.Repository
	Notifier Notifier
	Events   EventPublisher
	Topic    string
	Logger   *slog.Logger
}

var ErrStoreUnavailable = errors.New("chat: message store unavailable")

type SendParams struct {
	SenderID   string
	ReceiverID string
	ListingID  string
	Body       string
}

// Profile carries the public fields of a participant. Name and Email stay
// empty when the user record cannot be resolved; messages keep dangling
// references rather than failing.
type Profile struct {
	ID    string
	Name  string
	Email string
}

// MessageView is a message with both participant profiles attached.
type MessageView struct {
	Message  domainchat.Message
	Sender   Profile
	Receiver Profile
}

// ConversationEntry is one row of a user's conversation list.
type ConversationEntry struct {
	UserID        string
	Name          string
	Email         string
	LastMessage   string
	LastMessageAt time.Time
}

// Send validates, persists and delivers a message. Validation failures are
// the chat domain sentinels; anything else is a store failure.
func (s *Service) Send(ctx context.Context, params SendParams) (*domainchat.Message, error) {
	if s.Messages == nil {
		return nil, ErrStoreUnavailable
	}
	msg, err := domainchat.NewMessage(domainchat.CreateParams{
		ID:         uuid.NewString(),
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		ListingID:  params.ListingID,
		Body:       params.Body,
		Now:        time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.MessageReceived(msg.ReceiverID, *msg)
		s.Notifier.MessageSent(msg.SenderID, *msg)
	}
	s.publishCreated(ctx, msg)
	if s.Logger != nil {
		s.Logger.Info("message stored", "message_id", msg.ID, "conversation_id", msg.ConversationID)
	}
	return msg, nil
}

// Resolve attaches participant profiles to a single message.
func (s *Service) Resolve(ctx context.Context, msg domainchat.Message) MessageView {
	profiles := newProfileCache(s.Users)
	return MessageView{
		Message:  msg,
		Sender:   profiles.resolve(ctx, msg.SenderID),
		Receiver: profiles.resolve(ctx, msg.ReceiverID),
	}
}

// Conversation returns the full exchange between two users, oldest first,
// with participant profiles attached.
func (s *Service) Conversation(ctx context.Context, userID, otherUserID string) ([]MessageView, error) {
	if s.Messages == nil {
		return nil, ErrStoreUnavailable
	}
	msgs, err := s.Messages.Conversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	profiles := newProfileCache(s.Users)
	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, MessageView{
			Message:  msg,
			Sender:   profiles.resolve(ctx, msg.SenderID),
			Receiver: profiles.resolve(ctx, msg.ReceiverID),
		})
	}
	return views, nil
}

// ListConversations derives the user's conversation list, most recently
// active first. A user with no messages gets an empty list.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]ConversationEntry, error) {
	if s.Messages == nil {
		return nil, ErrStoreUnavailable
	}
	msgs, err := s.Messages.AllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := domainchat.SummarizeConversations(userID, msgs)
	profiles := newProfileCache(s.Users)
	entries := make([]ConversationEntry, 0, len(summaries))
	for _, summary := range summaries {
		profile := profiles.resolve(ctx, summary.CounterpartID)
		entries = append(entries, ConversationEntry{
			UserID:        summary.CounterpartID,
			Name:          profile.Name,
			Email:         profile.Email,
			LastMessage:   summary.LastMessage,
			LastMessageAt: summary.LastMessageAt,
		})
	}
	return entries, nil
}

// IsValidationError reports whether err is a caller mistake rather than a
// store failure.
func IsValidationError(err error) bool {
	return errors.Is(err, domainchat.ErrSenderRequired) ||
		errors.Is(err, domainchat.ErrReceiverRequired) ||
		errors.Is(err, domainchat.ErrBodyRequired) ||
		errors.Is(err, domainchat.ErrSelfConversation)
}

type messageCreatedEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	ListingID      string    `json:"listing_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Service) publishCreated(ctx context.Context, msg *domainchat.Message) {
	if s.Events == nil || s.Topic == "" {
		return
	}
	payload, err := json.Marshal(messageCreatedEvent{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		ListingID:      msg.ListingID,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		return
	}
	headers := map[string]string{"event": "message.created"}
	if err := s.Events.Publish(ctx, s.Topic, msg.ConversationID, payload, headers); err != nil && s.Logger != nil {
		s.Logger.Warn("message event publish failed", "error", err, "message_id", msg.ID)
	}
}

type profileCache struct {
	users    domainuser.Repository
	resolved map[string]Profile
}

func newProfileCache(users domainuser.Repository) *profileCache {
	return &profileCache{users: users, resolved: make(map[string]Profile)}
}

func (c *profileCache) resolve(ctx context.Context, id string) Profile {
	if profile, ok := c.resolved[id]; ok {
		return profile
	}
	profile := Profile{ID: id}
	if c.users != nil {
		if u, err := c.users.ByID(ctx, domainuser.ID(id)); err == nil {
			profile.Name = u.Name
			profile.Email = u.Email
		}
	}
	c.resolved[id] = profile
	return profile
}
