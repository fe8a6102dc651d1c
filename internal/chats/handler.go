package chats

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat/:documentId/message", h.sendMessage)
	rg.GET("/chat/:documentId/history", h.history)
	rg.DELETE("/chat/:documentId/history", h.clearHistory)
	rg.GET("/chat/:documentId/summary", h.summary)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type turnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "valid message is required", nil)
		return
	}

	result, err := h.Svc.SendMessage(c.Request.Context(), userID, documentID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "valid message is required", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process message", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message":   result.Message,
		"chatId":    result.ChatID,
		"timestamp": result.Timestamp,
	})
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")

	result, err := h.Svc.History(c.Request.Context(), userID, documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch chat history", nil)
		return
	}

	messages := make([]turnResponse, 0, len(result.Turns))
	for _, turn := range result.Turns {
		messages = append(messages, turnResponse{
			Role:      string(turn.Role),
			Content:   turn.Content,
			Timestamp: turn.Timestamp,
		})
	}

	payload := gin.H{
		"messages":   messages,
		"documentId": documentID,
		"exists":     result.Exists,
	}
	if result.Exists {
		payload["updatedAt"] = result.UpdatedAt
	}
	respond.OK(c, payload)
}

func (h *Handler) clearHistory(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")

	if err := h.Svc.Clear(c.Request.Context(), userID, documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no chat history found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear chat history", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message": "Chat history cleared successfully",
		"cleared": true,
	})
}

func (h *Handler) summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("documentId")

	result, err := h.Svc.Summary(c.Request.Context(), userID, documentID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to get chat summary", nil)
		return
	}

	if result.MessageCount == 0 {
		respond.OK(c, gin.H{
			"summary":      "No chat history for this document",
			"messageCount": 0,
			"lastActivity": nil,
		})
		return
	}

	respond.OK(c, gin.H{
		"summary":           summaryLine(result.MessageCount),
		"messageCount":      result.MessageCount,
		"userMessages":      result.UserMessages,
		"assistantMessages": result.AssistantMessages,
		"lastActivity":      result.LastActivity,
		"documentId":        documentID,
	})
}

func summaryLine(count int) string {
	return fmt.Sprintf("Chat contains %d messages", count)
}
