package services

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ChatMessage represents a message exchanged over the assistant socket
type ChatMessage struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

// ChatService runs the WebSocket channel behind the assistant chat widget.
// Each connection is an independent request/reply loop; there is no
// cross-client broadcast.
type ChatService struct {
	assistant *AssistantService
	upgrader  websocket.Upgrader
}

// NewChatService creates a new chat service
func NewChatService(assistant *AssistantService) *ChatService {
	return &ChatService{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Origin filtering happens in the CORS middleware
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the connection and serves the chat loop
func (s *ChatService) HandleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var incoming ChatMessage
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("websocket read failed")
			}
			return
		}

		if incoming.Message == "" {
			if err := conn.WriteJSON(ChatMessage{Type: "error", Message: "Message is required", SentAt: time.Now()}); err != nil {
				return
			}
			continue
		}

		reply := s.assistant.Respond(c.Request.Context(), incoming.Message)
		if err := conn.WriteJSON(ChatMessage{Type: "assistant", Message: reply, SentAt: time.Now()}); err != nil {
			return
		}
	}
}
