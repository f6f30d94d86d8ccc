package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:         log.With("handler", "ChatHandler"),
		chatService: chatService,
	}
}

type ChatRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (ch *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ch.chatService.ProcessChatMessage(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		ch.log.Error("Chat processing failed", "userId", req.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, result)
}
