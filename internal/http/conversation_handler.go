package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/service"
)

// ConversationHandler mantiene dependencias para endpoints de conversaciones
// y el turno de chat contra el asistente.
type ConversationHandler struct {
	logger   *zap.Logger
	convServ *service.ConversationService
	chatServ *service.ChatService
}

func NewConversationHandler(logger *zap.Logger, convServ *service.ConversationService, chatServ *service.ChatService) *ConversationHandler {
	return &ConversationHandler{
		logger:   logger,
		convServ: convServ,
		chatServ: chatServ,
	}
}

// Create maneja POST /conversations.
func (h *ConversationHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	// Body opcional: sin body se crea con el título por defecto.
	_ = c.ShouldBindJSON(&req)

	conv, err := h.convServ.Create(c.Request.Context(), claims.UserID, req.Title)
	if err != nil {
		h.logger.Error("create conversation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create conversation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conv})
}

// List maneja GET /conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	conversations, err := h.convServ.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list conversations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// Get maneja GET /conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	conv, err := h.convServ.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.respondConversationError(c, err, "get conversation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// Delete maneja DELETE /conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.convServ.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		h.respondConversationError(c, err, "delete conversation failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessages maneja GET /conversations/:id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	messages, err := h.convServ.ListMessages(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.respondConversationError(c, err, "list messages failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessage maneja POST /conversations/:id/messages: persiste el mensaje del
// usuario, consulta al asistente y devuelve ambos mensajes del turno.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Content     string   `json:"content" binding:"required"`
		Attachments []string `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userMsg, assistantMsg, err := h.chatServ.SendMessage(c.Request.Context(), c.Param("id"), claims.UserID, req.Content, req.Attachments)
	if err != nil {
		h.respondConversationError(c, err, "send message failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_message":      userMsg,
		"assistant_message": assistantMsg,
	})
}

func (h *ConversationHandler) respondConversationError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, service.ErrConversationForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "conversation belongs to another user"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
