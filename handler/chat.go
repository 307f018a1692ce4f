package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naiseuue444/lawpal-ai-contracts-india/middleware"
	"github.com/naiseuue444/lawpal-ai-contracts-india/pkg/logger"
	"github.com/naiseuue444/lawpal-ai-contracts-india/service"
)

type ChatHandler struct {
	store *service.Store
}

func NewChatHandler(store *service.Store) *ChatHandler {
	return &ChatHandler{store: store}
}

type ChatRequest struct {
	Message    string  `json:"message" binding:"required"`
	ContractID *string `json:"contract_id"`
}

// Ask logs a user question, optionally tied to a contract. Answering is
// handled elsewhere; this endpoint records the query history.
func (h *ChatHandler) Ask(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	query, err := h.store.LogChatQuery(c.Request.Context(), userID, req.Message, "", req.ContractID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to log chat query", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "query": query})
}

// History returns the user's chat history, newest first.
func (h *ChatHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)

	queries, err := h.store.ListChatQueries(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list chat queries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": queries})
}
