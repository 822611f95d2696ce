package dto

import (
	"time"

	chatsvc "kisansetu/internal/app/services/chat"
	domainchat "kisansetu/internal/domain/chat"
)

// Message is the flat wire shape of a persisted message, used on the
// realtime channel where participants are referenced by id only.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	ListingID      string    `json:"listingId,omitempty"`
	Body           string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewMessage(msg domainchat.Message) Message {
	return Message{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		ListingID:      msg.ListingID,
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	}
}

// Participant is the public profile attached to HTTP message responses.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// MessageDetail is a message with both participant profiles resolved.
type MessageDetail struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	Sender         Participant `json:"senderId"`
	Receiver       Participant `json:"receiverId"`
	ListingID      string      `json:"listingId,omitempty"`
	Body           string      `json:"message"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func NewMessageDetail(view chatsvc.MessageView) MessageDetail {
	return MessageDetail{
		ID:             view.Message.ID,
		ConversationID: view.Message.ConversationID,
		Sender:         Participant{ID: view.Sender.ID, Name: view.Sender.Name, Email: view.Sender.Email},
		Receiver:       Participant{ID: view.Receiver.ID, Name: view.Receiver.Name, Email: view.Receiver.Email},
		ListingID:      view.Message.ListingID,
		Body:           view.Message.Body,
		CreatedAt:      view.Message.CreatedAt,
	}
}

// Conversation is one row of the conversation list.
type Conversation struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
}

func NewConversation(entry chatsvc.ConversationEntry) Conversation {
	return Conversation{
		UserID:          entry.UserID,
		Name:            entry.Name,
		Email:           entry.Email,
		LastMessage:     entry.LastMessage,
		LastMessageTime: entry.LastMessageAt,
	}
}
