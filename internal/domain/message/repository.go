package message

import (
	"context"

	"github.com/google/uuid"
)

// MessageRepository defines persistence operations for chat messages.
type MessageRepository interface {
	Save(ctx context.Context, msg *Message) error

	// FindConversation retrieves the messages exchanged between two users,
	// oldest first, with pagination.
	FindConversation(ctx context.Context, userA, userB uuid.UUID, page, limit int) ([]*Message, int64, error)
}
