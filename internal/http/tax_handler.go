package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/service"
)

// TaxHandler expone la calculadora de impuestos.
type TaxHandler struct {
	logger  *zap.Logger
	taxServ *service.TaxService
}

func NewTaxHandler(logger *zap.Logger, taxServ *service.TaxService) *TaxHandler {
	return &TaxHandler{
		logger:  logger,
		taxServ: taxServ,
	}
}

// Calculate maneja POST /tax-calculator/calculate.
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req struct {
		TaxType string  `json:"tax_type" binding:"required"`
		Amount  float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tax request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	taxType := service.TaxType(strings.ToUpper(strings.TrimSpace(req.TaxType)))
	result, err := h.taxServ.Calculate(taxType, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedTaxType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported tax type"})
		case errors.Is(err, service.ErrInvalidTaxAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be non-negative"})
		default:
			h.logger.Error("tax calculation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not calculate tax"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
