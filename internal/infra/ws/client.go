package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	chatsvc "kisansetu/internal/app/services/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	outboundBuffer = 64
)

// envelope is the wire frame: a named event plus its JSON payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type sendMessageData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	ListingID  string `json:"listingId"`
	Body       string `json:"message"`
}

type errorData struct {
	Error string `json:"error"`
}

// Client is one websocket connection. It joins the hub on the client's join
// event and routes send_message through the same chat service the HTTP
// route uses.
type Client struct {
	hub    *Hub
	chat   *chatsvc.Service
	logger *slog.Logger
	socket *websocket.Conn

	mu       sync.Mutex
	userID   string
	outbound chan outboundEnvelope
	done     chan struct{}
	once     sync.Once
}

func NewClient(hub *Hub, chat *chatsvc.Service, logger *slog.Logger, socket *websocket.Conn) *Client {
	return &Client{
		hub:      hub,
		chat:     chat,
		logger:   logger,
		socket:   socket,
		outbound: make(chan outboundEnvelope, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Run services the connection until it closes. Caller's goroutine runs the
// read loop; the write pump runs alongside it so a single writer owns the
// socket.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// Push queues an event for delivery. Events for one connection go out in
// queue order; when the buffer is full or the connection is closing the
// event is dropped, matching the channel's best-effort contract. The
// outbound channel is never closed, so a Push racing teardown is safe: the
// hub may snapshot this session just before it leaves, and that late Push
// must not panic.
func (c *Client) Push(event string, payload any) {
	select {
	case <-c.done:
		return
	case c.outbound <- outboundEnvelope{Event: event, Data: payload}:
	default:
		if c.logger != nil {
			c.logger.Warn("ws outbound buffer full, dropping event", "event", event)
		}
	}
}

func (c *Client) readPump() {
	defer c.close()
	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.socket.ReadMessage()
		if err != nil {
			return
		}
		var frame envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.Push(EventMessageError, errorData{Error: "malformed frame"})
			continue
		}
		switch frame.Event {
		case EventJoin:
			c.handleJoin(frame.Data)
		case EventSendMessage:
			c.handleSend(frame.Data)
		default:
			// unknown events are ignored, not fatal
		}
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	userID := decodeJoin(data)
	if userID == "" {
		c.Push(EventMessageError, errorData{Error: "join requires a user id"})
		return
	}
	c.mu.Lock()
	previous := c.userID
	c.userID = userID
	c.mu.Unlock()
	if previous != "" && previous != userID {
		c.hub.Leave(previous, c)
	}
	c.hub.Join(userID, c)
}

func (c *Client) handleSend(data json.RawMessage) {
	var payload sendMessageData
	if err := json.Unmarshal(data, &payload); err != nil {
		c.Push(EventMessageError, errorData{Error: "malformed send_message payload"})
		return
	}
	sender := payload.SenderID
	if sender == "" {
		c.mu.Lock()
		sender = c.userID
		c.mu.Unlock()
	}
	_, err := c.chat.Send(context.Background(), chatsvc.SendParams{
		SenderID:   sender,
		ReceiverID: payload.ReceiverID,
		ListingID:  payload.ListingID,
		Body:       payload.Body,
	})
	if err != nil {
		// the error event goes to this connection only; delivery of the
		// stored message to all sessions is handled by the service
		c.Push(EventMessageError, errorData{Error: errorMessage(err)})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()
	for {
		select {
		case frame := <-c.outbound:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.mu.Lock()
		userID := c.userID
		c.mu.Unlock()
		if userID != "" {
			c.hub.Leave(userID, c)
		}
		close(c.done)
		if c.socket != nil {
			c.socket.Close()
		}
	})
}

// decodeJoin accepts both a bare user-id string and a {"userId": ...}
// object, since older clients send the former.
func decodeJoin(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var obj struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.UserID
	}
	return ""
}

func errorMessage(err error) string {
	if chatsvc.IsValidationError(err) {
		return err.Error()
	}
	return "failed to send message"
}
