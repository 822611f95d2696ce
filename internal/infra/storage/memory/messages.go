package memory

import (
	"context"
	"sort"
	"sync"

	domainchat "kisansetu/internal/domain/chat"
)

// MessageRepository stores messages in memory. Not suitable for production.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []domainchat.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Append(ctx context.Context, msg *domainchat.Message) error {
	if msg == nil {
		return domainchat.ErrBodyRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MessageRepository) Conversation(ctx context.Context, userA, userB string) ([]domainchat.Message, error) {
	conversationID := domainchat.ConversationID(userA, userB)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domainchat.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MessageRepository) AllForUser(ctx context.Context, userID string) ([]domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domainchat.Message
	for _, msg := range r.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
