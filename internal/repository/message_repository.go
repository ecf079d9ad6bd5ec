package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	messageDomain "github.com/babyconnect/service-booking/internal/domain/message"
)

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID `gorm:"type:uuid;index:idx_messages_pair;not null"`
	ReceiverID uuid.UUID `gorm:"type:uuid;index:idx_messages_pair;not null"`
	Content    string    `gorm:"not null;size:2000"`
	SentAt     time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (MessageModel) TableName() string {
	return "messages"
}

// GormMessageRepository is the GORM-based implementation of MessageRepository.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save persists a new message.
func (r *GormMessageRepository) Save(ctx context.Context, msg *messageDomain.Message) error {
	model := &MessageModel{
		ID:         msg.ID(),
		SenderID:   msg.SenderID(),
		ReceiverID: msg.ReceiverID(),
		Content:    msg.Content(),
		SentAt:     msg.SentAt(),
		CreatedAt:  msg.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// FindConversation retrieves the messages exchanged between two users in
// either direction, oldest first, paginated.
func (r *GormMessageRepository) FindConversation(ctx context.Context, userA, userB uuid.UUID, page, limit int) ([]*messageDomain.Message, int64, error) {
	pair := r.db.WithContext(ctx).Model(&MessageModel{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA)

	var total int64
	if err := pair.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var models []MessageModel
	offset := (page - 1) * limit
	if err := pair.
		Order("sent_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find conversation: %w", err)
	}

	messages := make([]*messageDomain.Message, len(models))
	for i, m := range models {
		messages[i] = messageDomain.Reconstruct(m.ID, m.SenderID, m.ReceiverID, m.Content, m.SentAt, m.CreatedAt)
	}

	return messages, total, nil
}
