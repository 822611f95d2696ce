package ws

import (
	"encoding/json"
	"testing"

	chatsvc "kisansetu/internal/app/services/chat"
	domainchat "kisansetu/internal/domain/chat"
	"kisansetu/internal/infra/storage/memory"
)

func joinedClient(t *testing.T, hub *Hub, chat *chatsvc.Service, userID string) *Client {
	t.Helper()
	c := NewClient(hub, chat, nil, nil)
	c.handleJoin(json.RawMessage(`"` + userID + `"`))
	if hub.Sessions(userID) == 0 {
		t.Fatalf("join for %q did not register with the hub", userID)
	}
	return c
}

func drainEvents(c *Client) []outboundEnvelope {
	var frames []outboundEnvelope
	for {
		select {
		case frame := <-c.outbound:
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestPushAfterCloseDoesNotPanic(t *testing.T) {
	hub := NewHub(nil)
	client := joinedClient(t, hub, nil, "alice")

	client.close()
	// a hub Emit may have snapshotted this session just before it left;
	// the late push must be a silent drop
	client.Push(EventReceiveMessage, "late")

	if n := hub.Sessions("alice"); n != 0 {
		t.Fatalf("sessions after close = %d", n)
	}
	if frames := drainEvents(client); len(frames) != 0 {
		t.Fatalf("closed client buffered %v", frames)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	client := joinedClient(t, hub, nil, "alice")
	client.close()
	client.close()
	client.Push(EventMessageSent, "still fine")
}

func TestSendMessageErrorReachesOriginOnly(t *testing.T) {
	hub := NewHub(nil)
	chat := &chatsvc.Service{Messages: memory.NewMessageRepository(), Notifier: hub}
	alice := joinedClient(t, hub, chat, "alice")
	aliceTab := joinedClient(t, hub, chat, "alice")
	bob := joinedClient(t, hub, chat, "bob")

	alice.handleSend(json.RawMessage(`{"receiverId":"bob","message":"   "}`))

	frames := drainEvents(alice)
	if len(frames) != 1 || frames[0].Event != EventMessageError {
		t.Fatalf("origin connection got %v, want one message_error", frames)
	}
	data, ok := frames[0].Data.(errorData)
	if !ok {
		t.Fatalf("error payload type %T", frames[0].Data)
	}
	if data.Error != domainchat.ErrBodyRequired.Error() {
		t.Fatalf("error text %q", data.Error)
	}
	if frames := drainEvents(aliceTab); len(frames) != 0 {
		t.Fatalf("sender's other tab got %v", frames)
	}
	if frames := drainEvents(bob); len(frames) != 0 {
		t.Fatalf("receiver got %v", frames)
	}
}

func TestSendMessageMalformedPayload(t *testing.T) {
	hub := NewHub(nil)
	chat := &chatsvc.Service{Messages: memory.NewMessageRepository(), Notifier: hub}
	alice := joinedClient(t, hub, chat, "alice")

	alice.handleSend(json.RawMessage(`[1,2,3]`))

	frames := drainEvents(alice)
	if len(frames) != 1 || frames[0].Event != EventMessageError {
		t.Fatalf("got %v, want one message_error", frames)
	}
}

func TestSendMessageDeliversToBothSides(t *testing.T) {
	hub := NewHub(nil)
	repo := memory.NewMessageRepository()
	chat := &chatsvc.Service{Messages: repo, Notifier: hub}
	alice := joinedClient(t, hub, chat, "alice")
	bob := joinedClient(t, hub, chat, "bob")

	// sender id is omitted; it defaults to the joined user
	alice.handleSend(json.RawMessage(`{"receiverId":"bob","message":"is the wheat still available?"}`))

	bobFrames := drainEvents(bob)
	if len(bobFrames) != 1 || bobFrames[0].Event != EventReceiveMessage {
		t.Fatalf("receiver got %v, want one receive_message", bobFrames)
	}
	aliceFrames := drainEvents(alice)
	if len(aliceFrames) != 1 || aliceFrames[0].Event != EventMessageSent {
		t.Fatalf("sender got %v, want one message_sent", aliceFrames)
	}
}

func TestDecodeJoinShapes(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"bare string", `"alice"`, "alice"},
		{"object", `{"userId":"bob"}`, "bob"},
		{"empty object", `{}`, ""},
		{"garbage", `12.5`, ""},
	}
	for _, tc := range cases {
		if got := decodeJoin(json.RawMessage(tc.data)); got != tc.want {
			t.Fatalf("%s: decodeJoin(%s) = %q, want %q", tc.name, tc.data, got, tc.want)
		}
	}
}
