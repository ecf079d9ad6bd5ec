package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	messageDomain "github.com/babyconnect/service-booking/internal/domain/message"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// SendMessageRequest holds the data to send a chat message.
type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Content    string    `json:"content" binding:"required"`
}

// MessageDTO is the API response representation of a chat message.
type MessageDTO struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// MessageService handles chat use cases between booking parties.
type MessageService struct {
	repo   messageDomain.MessageRepository
	logger *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo messageDomain.MessageRepository, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, logger: logger}
}

// SendMessage stores a message from the sender to the receiver.
func (s *MessageService) SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	msg, err := messageDomain.NewMessage(senderID, req.ReceiverID, req.Content)
	if err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		s.logger.Error("failed to save message", zap.Error(err))
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// GetConversation returns the messages between the caller and another user,
// oldest first.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID uuid.UUID, page, limit int) (*domain.PaginatedResult[MessageDTO], error) {
	messages, total, err := s.repo.FindConversation(ctx, userID, otherID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = toMessageDTO(m)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func toMessageDTO(m *messageDomain.Message) MessageDTO {
	return MessageDTO{
		ID:         m.ID(),
		SenderID:   m.SenderID(),
		ReceiverID: m.ReceiverID(),
		Content:    m.Content(),
		SentAt:     m.SentAt(),
	}
}
