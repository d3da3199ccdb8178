package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taxpadi/internal/domain"
	"taxpadi/internal/repository"
)

// ConversationService maneja el CRUD de conversaciones con chequeo de
// ownership: una conversación pertenece a exactamente un usuario y solo él
// puede leerla o mutarla.
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
}

func NewConversationService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
	}
}

func (s *ConversationService) Create(ctx context.Context, userID, title string) (domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultConversationTitle
	}
	now := time.Now().UTC()
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	conv.Messages = []domain.Message{}
	return conv, nil
}

func (s *ConversationService) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	conversations, err := s.conversations.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if conversations == nil {
		conversations = []domain.Conversation{}
	}
	return conversations, nil
}

func (s *ConversationService) Get(ctx context.Context, id, userID string) (domain.Conversation, error) {
	conv, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return domain.Conversation{}, err
	}
	messages, err := s.messages.ListByConversationID(ctx, id)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	conv.Messages = messages
	return conv, nil
}

// ListMessages devuelve los mensajes de una conversación propia en orden de
// inserción.
func (s *ConversationService) ListMessages(ctx context.Context, id, userID string) ([]domain.Message, error) {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByConversationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *ConversationService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.conversations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func (s *ConversationService) getOwned(ctx context.Context, id, userID string) (domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, ErrConversationNotFound
		}
		return domain.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	if conv.UserID != userID {
		return domain.Conversation{}, ErrConversationForbidden
	}
	return conv, nil
}
