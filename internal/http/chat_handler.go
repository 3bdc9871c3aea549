package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemini-chat/internal/domain"
	"gemini-chat/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de chat e historial.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:  logger,
		chatSvc: chatSvc,
	}
}

type chatRequest struct {
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat maneja POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	reply, err := h.chatSvc.HandleChat(c.Request.Context(), req.Username, req.Message)
	if err != nil {
		if service.KindOf(err) == service.KindValidation {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		h.logger.Error("chat failed",
			zap.Error(err),
			zap.String("username", req.Username),
			zap.Stringer("kind", service.KindOf(err)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{Response: reply})
}

// History maneja GET /history/:username.
func (h *ChatHandler) History(c *gin.Context) {
	username := c.Param("username")

	messages, err := h.chatSvc.History(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("history failed",
			zap.Error(err),
			zap.String("username", username),
			zap.Stringer("kind", service.KindOf(err)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}
