package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/ai"
)

func setupAIRouter(webhook ai.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAIHandler(zap.NewNop(), webhook)
	r.POST("/ai/prompt", h.Prompt)
	return r
}

func TestAIHandlerPrompt_Success(t *testing.T) {
	webhook := &ai.MockClient{Response: "the VAT rate is 7.5%"}
	r := setupAIRouter(webhook)

	rec := performAuthedRequest(r, http.MethodPost, "/ai/prompt", "", map[string]string{
		"message": "What is the VAT rate?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if webhook.LastPrompt != "What is the VAT rate?" {
		t.Fatalf("unexpected prompt: %q", webhook.LastPrompt)
	}
	want := `{"response":"the VAT rate is 7.5%"}`
	if rec.Body.String() != want {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAIHandlerPrompt_MissingMessage(t *testing.T) {
	r := setupAIRouter(&ai.MockClient{})

	rec := performAuthedRequest(r, http.MethodPost, "/ai/prompt", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// Ante caída del webhook el endpoint sigue devolviendo 200 con el fallback.
func TestAIHandlerPrompt_FallbackStays200(t *testing.T) {
	webhook := &ai.MockClient{Response: ai.FallbackResponse}
	r := setupAIRouter(webhook)

	rec := performAuthedRequest(r, http.MethodPost, "/ai/prompt", "", map[string]string{
		"message": "hola",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
