package chat

import "time"

// Summary is the derived view of one conversation: the counterpart and the
// most recent message exchanged with them. It is never persisted.
type Summary struct {
	CounterpartID string
	LastMessage   string
	LastMessageAt time.Time
}

// SummarizeConversations folds a newest-first message list into one summary
// per counterpart, ordered by most recent activity. Because the input is
// newest first, the first message seen for a counterpart is its latest;
// later occurrences are skipped. An empty input yields an empty slice.
func SummarizeConversations(userID string, newestFirst []Message) []Summary {
	seen := make(map[string]struct{}, len(newestFirst))
	summaries := make([]Summary, 0, len(newestFirst))
	for _, msg := range newestFirst {
		counterpart := msg.Counterpart(userID)
		if _, ok := seen[counterpart]; ok {
			continue
		}
		seen[counterpart] = struct{}{}
		summaries = append(summaries, Summary{
			CounterpartID: counterpart,
			LastMessage:   msg.Body,
			LastMessageAt: msg.CreatedAt,
		})
	}
	return summaries
}
