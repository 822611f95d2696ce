package chat

import (
	"errors"
	"testing"
	"time"
)

func TestConversationIDOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"u-9", "u-10"},
		{"507f1f77bcf86cd799439011", "507f191e810c19729de860ea"},
	}
	for _, pair := range pairs {
		forward := ConversationID(pair[0], pair[1])
		backward := ConversationID(pair[1], pair[0])
		if forward != backward {
			t.Fatalf("ConversationID(%q,%q)=%q but reversed=%q", pair[0], pair[1], forward, backward)
		}
	}
	if got := ConversationID("bob", "alice"); got != "alice_bob" {
		t.Fatalf("expected sorted join alice_bob, got %q", got)
	}
}

func TestNewMessageAssignsConversationAndTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	msg, err := NewMessage(CreateParams{
		ID:         "m1",
		SenderID:   " bob ",
		ReceiverID: "alice",
		ListingID:  "l1",
		Body:       " hello ",
		Now:        now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ConversationID != "alice_bob" {
		t.Fatalf("conversation id %q", msg.ConversationID)
	}
	if msg.SenderID != "bob" || msg.Body != "hello" {
		t.Fatalf("expected trimmed fields, got sender=%q body=%q", msg.SenderID, msg.Body)
	}
	if !msg.CreatedAt.Equal(now) {
		t.Fatalf("created at %v, want %v", msg.CreatedAt, now)
	}
}

func TestNewMessageValidation(t *testing.T) {
	cases := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"missing sender", CreateParams{ReceiverID: "b", Body: "hi"}, ErrSenderRequired},
		{"missing receiver", CreateParams{SenderID: "a", Body: "hi"}, ErrReceiverRequired},
		{"empty body", CreateParams{SenderID: "a", ReceiverID: "b", Body: "   "}, ErrBodyRequired},
		{"self chat", CreateParams{SenderID: "a", ReceiverID: "a", Body: "hi"}, ErrSelfConversation},
	}
	for _, tc := range cases {
		if _, err := NewMessage(tc.params); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCounterpart(t *testing.T) {
	msg := Message{SenderID: "a", ReceiverID: "b"}
	if got := msg.Counterpart("a"); got != "b" {
		t.Fatalf("counterpart of sender = %q", got)
	}
	if got := msg.Counterpart("b"); got != "a" {
		t.Fatalf("counterpart of receiver = %q", got)
	}
}
