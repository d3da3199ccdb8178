package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taxpadi/internal/ai"
	"taxpadi/internal/domain"
	"taxpadi/internal/repository"
)

var (
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationForbidden = errors.New("access denied")
)

const maxTitleLength = 50

// ChatService orquesta un turno de conversación: persiste el mensaje del
// usuario, consulta el webhook de IA y persiste la respuesta del asistente.
type ChatService struct {
	logger        *zap.Logger
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	webhook       ai.Client
}

func NewChatService(
	logger *zap.Logger,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	webhook ai.Client,
) *ChatService {
	return &ChatService{
		logger:        logger,
		conversations: conversations,
		messages:      messages,
		webhook:       webhook,
	}
}

// SendMessage ejecuta los pasos del turno en orden estricto. El chequeo de
// ownership pasa antes de cualquier mutación; la derivación de título es
// best-effort y nunca voltea el turno.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, userID, content string, attachments []string) (domain.Message, domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, domain.Message{}, ErrConversationNotFound
		}
		return domain.Message{}, domain.Message{}, fmt.Errorf("get conversation: %w", err)
	}
	if conv.UserID != userID {
		return domain.Message{}, domain.Message{}, ErrConversationForbidden
	}

	history, err := s.messages.ListByConversationID(ctx, conversationID)
	if err != nil {
		return domain.Message{}, domain.Message{}, fmt.Errorf("list messages: %w", err)
	}
	isFirstMessage := countUserMessages(history) == 0

	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return domain.Message{}, domain.Message{}, fmt.Errorf("persist user message: %w", err)
	}
	s.touch(ctx, conversationID)

	answer := s.webhook.Send(ctx, ai.Request{
		Prompt:         content,
		Context:        buildContext(history),
		ConversationID: conversationID,
		Attachments:    attachments,
	})

	assistantMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        answer,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		// El mensaje del usuario ya quedó persistido; el turno queda sin
		// respuesta y el cliente debe reintentar con un request nuevo.
		return domain.Message{}, domain.Message{}, fmt.Errorf("persist assistant message: %w", err)
	}
	s.touch(ctx, conversationID)

	if isFirstMessage && (conv.Title == domain.DefaultConversationTitle || conv.Title == "") {
		if title := deriveTitle(content); title != "" {
			if err := s.conversations.UpdateTitle(ctx, conversationID, title); err != nil {
				s.logger.Warn("update conversation title failed",
					zap.String("conversation_id", conversationID),
					zap.Error(err),
				)
			}
		}
	}

	return userMsg, assistantMsg, nil
}

func (s *ChatService) touch(ctx context.Context, conversationID string) {
	if err := s.conversations.Touch(ctx, conversationID, time.Now().UTC()); err != nil {
		s.logger.Warn("touch conversation failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}

func countUserMessages(messages []domain.Message) int {
	count := 0
	for _, m := range messages {
		if m.Role == domain.RoleUser {
			count++
		}
	}
	return count
}

// buildContext mapea el historial (ya ordenado oldest-first) al formato
// role/content del webhook.
func buildContext(history []domain.Message) []ai.ContextMessage {
	if len(history) == 0 {
		return nil
	}
	out := make([]ai.ContextMessage, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "assistant"
		}
		out = append(out, ai.ContextMessage{Role: role, Content: m.Content})
	}
	return out
}

// deriveTitle trunca a 50 caracteres y recorta espacios, igual que el título
// derivado del primer mensaje.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > maxTitleLength {
		runes = runes[:maxTitleLength]
	}
	return strings.TrimSpace(string(runes))
}
