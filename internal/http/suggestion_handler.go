package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpadi/internal/domain"
)

// Preguntas sugeridas para arrancar una conversación.
var defaultSuggestions = []domain.Suggestion{
	{Title: "How do I calculate my PAYE tax?", Category: "PAYE"},
	{Title: "What is the current VAT rate in Nigeria?", Category: "VAT"},
	{Title: "How do I register for a Tax Identification Number?", Category: "TIN"},
	{Title: "What expenses are tax deductible for my business?", Category: "CIT"},
	{Title: "When is the deadline for filing annual tax returns?", Category: "Filing"},
	{Title: "How is Capital Gains Tax calculated?", Category: "CGT"},
}

// SuggestionHandler sirve la lista estática de preguntas sugeridas.
type SuggestionHandler struct{}

func NewSuggestionHandler() *SuggestionHandler {
	return &SuggestionHandler{}
}

// List maneja GET /suggestions.
func (h *SuggestionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": defaultSuggestions})
}
