package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	chatsvc "kisansetu/internal/app/services/chat"
)

// Handler upgrades HTTP requests into hub-managed websocket clients.
type Handler struct {
	Hub    *Hub
	Chat   *chatsvc.Service
	Logger *slog.Logger

	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, chat *chatsvc.Service, logger *slog.Logger) *Handler {
	return &Handler{
		Hub:    hub,
		Chat:   chat,
		Logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin policy is enforced by the CORS layer in front
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Handle(c *gin.Context) {
	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ws upgrade failed", "error", err)
		}
		return
	}
	client := NewClient(h.Hub, h.Chat, h.Logger, socket)
	client.Run()
}
