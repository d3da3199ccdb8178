package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/service"
)

func setupTaxRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTaxHandler(zap.NewNop(), service.NewTaxService())
	r.POST("/tax-calculator/calculate", h.Calculate)
	return r
}

func TestTaxHandlerCalculate_VAT(t *testing.T) {
	r := setupTaxRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/tax-calculator/calculate", "", map[string]any{
		"tax_type": "vat",
		"amount":   1000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result service.TaxResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result.TaxAmount != 75 {
		t.Fatalf("expected 75 tax, got %v", resp.Result.TaxAmount)
	}
}

func TestTaxHandlerCalculate_UnsupportedType(t *testing.T) {
	r := setupTaxRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/tax-calculator/calculate", "", map[string]any{
		"tax_type": "WEALTH",
		"amount":   100,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaxHandlerCalculate_NegativeAmount(t *testing.T) {
	r := setupTaxRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/tax-calculator/calculate", "", map[string]any{
		"tax_type": "PAYE",
		"amount":   -5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
