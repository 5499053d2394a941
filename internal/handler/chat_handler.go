package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/internal/service/ai"
)

// ChatHandler serves transcript-grounded chat.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatRequest is one chat turn. The client replays its own history; the
// server keeps no conversation state between requests.
type ChatRequest struct {
	UserID  string       `json:"user_id" binding:"required"`
	Message string       `json:"message" binding:"required"`
	History []ai.Message `json:"history" binding:"omitempty,dive"`
}

// HandleChat answers a question grounded in the user's saved transcripts.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid request payload: "+err.Error())
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), req.UserID, req.Message, req.History)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GetChatHistory returns the stored conversation, oldest first.
func (h *ChatHandler) GetChatHistory(c *gin.Context) {
	limit, _ := paginate(c)

	messages, err := h.chat.History(c.Request.Context(), c.Param("userID"), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}
