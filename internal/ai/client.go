package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// FallbackResponse es la respuesta fija cuando se agotan los reintentos.
// El caller siempre recibe texto mostrable, nunca un error de transporte.
const FallbackResponse = "Connection timed out. Please check your internet connection and try again later."

// ContextMessage es un par role/content de un turno previo.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request es el body contextual del webhook. Inmutable, se construye fresco
// por llamada.
type Request struct {
	Prompt         string           `json:"prompt"`
	Context        []ContextMessage `json:"context,omitempty"`
	ConversationID string           `json:"conversationId,omitempty"`
	Attachments    []string         `json:"attachments,omitempty"`
}

// Client define la interfaz para consultar el webhook de IA.
type Client interface {
	Send(ctx context.Context, req Request) string
	SendPrompt(ctx context.Context, message string) string
}

// HTTPClient implementa Client contra el webhook de Make con reintentos y
// backoff exponencial.
type HTTPClient struct {
	webhookURL  string
	maxAttempts int
	client      *http.Client
	logger      *zap.Logger
	sleep       func(time.Duration)
}

// NewHTTPClient construye el cliente. timeout acota cada intento individual;
// maxAttempts es el total de intentos (default 30s / 3).
func NewHTTPClient(webhookURL string, timeout time.Duration, maxAttempts int, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		webhookURL:  webhookURL,
		maxAttempts: maxAttempts,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// Send hace POST del request contextual y devuelve el texto extraído, o
// FallbackResponse si se agotan los intentos.
func (c *HTTPClient) Send(ctx context.Context, req Request) string {
	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("marshal webhook request failed", zap.Error(err))
		return FallbackResponse
	}
	return c.post(ctx, body)
}

// SendPrompt usa la forma simple del wire contract: {"message": "..."}.
func (c *HTTPClient) SendPrompt(ctx context.Context, message string) string {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		c.logger.Error("marshal webhook request failed", zap.Error(err))
		return FallbackResponse
	}
	return c.post(ctx, body)
}

func (c *HTTPClient) post(ctx context.Context, body []byte) string {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, err := c.attempt(ctx, body)
		if err == nil {
			c.logger.Info("webhook call succeeded", zap.Int("attempt", attempt))
			return text
		}

		c.logger.Warn("webhook attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.maxAttempts),
			zap.Error(err),
		)

		if attempt < c.maxAttempts {
			// Backoff exponencial: 1s, 2s, 4s, ...
			delay := time.Duration(1<<(attempt-1)) * time.Second
			c.logger.Info("retrying webhook call", zap.Duration("delay", delay))
			c.sleep(delay)
		}
	}

	c.logger.Error("all webhook attempts failed", zap.Int("attempts", c.maxAttempts))
	return FallbackResponse
}

func (c *HTTPClient) attempt(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook http error: status=%d", resp.StatusCode)
	}

	return ExtractText(string(respBody)), nil
}
