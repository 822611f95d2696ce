package chat

import (
	"testing"
	"time"
)

func at(minute int) time.Time {
	return time.Date(2026, 3, 14, 10, minute, 0, 0, time.UTC)
}

func TestSummarizeConversationsKeepsNewestPerCounterpart(t *testing.T) {
	newestFirst := []Message{
		{SenderID: "bob", ReceiverID: "alice", Body: "hi", CreatedAt: at(3)},
		{SenderID: "carol", ReceiverID: "alice", Body: "price?", CreatedAt: at(2)},
		{SenderID: "alice", ReceiverID: "bob", Body: "hello", CreatedAt: at(1)},
	}
	summaries := SummarizeConversations("alice", newestFirst)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].CounterpartID != "bob" || summaries[0].LastMessage != "hi" {
		t.Fatalf("first summary %+v", summaries[0])
	}
	if summaries[1].CounterpartID != "carol" || summaries[1].LastMessage != "price?" {
		t.Fatalf("second summary %+v", summaries[1])
	}
	if !summaries[0].LastMessageAt.Equal(at(3)) {
		t.Fatalf("last message time %v", summaries[0].LastMessageAt)
	}
}

func TestSummarizeConversationsIdempotent(t *testing.T) {
	newestFirst := []Message{
		{SenderID: "bob", ReceiverID: "alice", Body: "hi", CreatedAt: at(2)},
		{SenderID: "alice", ReceiverID: "bob", Body: "hello", CreatedAt: at(1)},
	}
	first := SummarizeConversations("alice", newestFirst)
	second := SummarizeConversations("alice", newestFirst)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("summary %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSummarizeConversationsEmpty(t *testing.T) {
	summaries := SummarizeConversations("alice", nil)
	if summaries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}
