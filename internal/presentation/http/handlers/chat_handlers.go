// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LeadPulse/leadpulse-go/internal/application/services"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
)

// ChatHandlers contains the conversational endpoints: one-shot HTTP turns
// and the websocket chat transport.
type ChatHandlers struct {
	chatService *services.ChatService
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewChatHandlers creates chat handlers with injected dependencies
func NewChatHandlers(chatService *services.ChatService, logger *logging.ChanneledLogger) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The widget is embedded on customer sites; CORS is enforced
			// at the HTTP layer, not per websocket origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ChatRequest is one inbound user turn.
type ChatRequest struct {
	SessionID      string `json:"sessionId"`
	UserIdentifier string `json:"userIdentifier"`
	Message        string `json:"message" binding:"required"`
}

// PostChat handles POST /api/v1/chat - one conversational turn
func (h *ChatHandlers) PostChat(c *gin.Context) {
	start := time.Now()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Chat().Debug("Chat request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.chatService.HandleTurn(c.Request.Context(), req.SessionID, req.UserIdentifier, req.Message)
	if err != nil {
		h.logger.Chat().Error("Chat turn failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetChatWS handles GET /api/v1/chat/ws - websocket chat transport. Each
// inbound frame is one ChatRequest; each outbound frame is one TurnResult.
func (h *ChatHandlers) GetChatWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Chat().Error("Websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	h.logger.Chat().Debug("Websocket chat connected", "remote", conn.RemoteAddr().String())

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Chat().Warn("Websocket read failed", "error", err.Error())
			}
			return
		}

		if req.Message == "" {
			if err := conn.WriteJSON(gin.H{"error": "message required"}); err != nil {
				return
			}
			continue
		}

		result, err := h.chatService.HandleTurn(c.Request.Context(), req.SessionID, req.UserIdentifier, req.Message)
		if err != nil {
			h.logger.Chat().Error("Websocket turn failed", "error", err.Error())
			if err := conn.WriteJSON(gin.H{"error": "failed to process message"}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(result); err != nil {
			h.logger.Chat().Warn("Websocket write failed", "error", err.Error())
			return
		}
	}
}
