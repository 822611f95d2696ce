package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"kisansetu/internal/app/dto"
	chatsvc "kisansetu/internal/app/services/chat"
)

// ChatHTTP exposes the messaging endpoints.
type ChatHTTP interface {
	GetConversation(c *gin.Context)
	ListConversations(c *gin.Context)
	SendMessage(c *gin.Context)
}

type ChatHandler struct {
	Service *chatsvc.Service
	Logger  *slog.Logger
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Body       string `json:"message"`
	ListingID  string `json:"listingId"`
}

// GetConversation returns the full exchange with another user, oldest first.
func (h ChatHandler) GetConversation(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	otherUserID := c.Param("otherUserId")
	views, err := h.Service.Conversation(c.Request.Context(), p.ID, otherUserID)
	if err != nil {
		h.respondChatError(c, err, "fetch conversation")
		return
	}
	messages := make([]dto.MessageDetail, 0, len(views))
	for _, view := range views {
		messages = append(messages, dto.NewMessageDetail(view))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// ListConversations returns the user's conversation list, most recently
// active first.
func (h ChatHandler) ListConversations(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	entries, err := h.Service.ListConversations(c.Request.Context(), p.ID)
	if err != nil {
		h.respondChatError(c, err, "fetch conversations")
		return
	}
	conversations := make([]dto.Conversation, 0, len(entries))
	for _, entry := range entries {
		conversations = append(conversations, dto.NewConversation(entry))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": conversations})
}

// SendMessage is the request/response fallback for clients without a live
// websocket. It goes through the same service method as the socket path, so
// online receivers still get their push.
func (h ChatHandler) SendMessage(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	msg, err := h.Service.Send(c.Request.Context(), chatsvc.SendParams{
		SenderID:   p.ID,
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Body:       req.Body,
	})
	if err != nil {
		h.respondChatError(c, err, "send message")
		return
	}
	view := h.Service.Resolve(c.Request.Context(), *msg)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": dto.NewMessageDetail(view)})
}

func (h ChatHandler) respondChatError(c *gin.Context, err error, action string) {
	if chatsvc.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if h.Logger != nil {
		h.Logger.Error("chat request failed", "action", action, "error", err, "request_id", c.GetString("request_id"))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "error " + action})
}

var _ ChatHTTP = ChatHandler{}
