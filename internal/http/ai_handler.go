package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/ai"
)

// AIHandler expone el passthrough directo al webhook del asistente, sin
// persistencia ni autenticación.
type AIHandler struct {
	logger  *zap.Logger
	webhook ai.Client
}

func NewAIHandler(logger *zap.Logger, webhook ai.Client) *AIHandler {
	return &AIHandler{
		logger:  logger,
		webhook: webhook,
	}
}

// Prompt maneja POST /ai/prompt. El webhook nunca devuelve error: ante fallos
// responde la frase de fallback, así que aquí siempre es 200.
func (h *AIHandler) Prompt(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid prompt request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	response := h.webhook.SendPrompt(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{"response": response})
}
