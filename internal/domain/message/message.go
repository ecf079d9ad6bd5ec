package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// Message is one chat message between the two parties of a booking.
type Message struct {
	id         uuid.UUID
	senderID   uuid.UUID
	receiverID uuid.UUID
	content    string
	sentAt     time.Time
	createdAt  time.Time
}

// NewMessage creates a new chat message.
func NewMessage(senderID, receiverID uuid.UUID, content string) (*Message, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, domain.NewValidationError("sender and receiver are required")
	}
	if senderID == receiverID {
		return nil, domain.NewValidationError("sender and receiver must differ")
	}
	if content == "" {
		return nil, domain.NewValidationError("message content is required")
	}

	now := time.Now().UTC()
	return &Message{
		id:         uuid.New(),
		senderID:   senderID,
		receiverID: receiverID,
		content:    content,
		sentAt:     now,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a Message from persistence.
func Reconstruct(id, senderID, receiverID uuid.UUID, content string, sentAt, createdAt time.Time) *Message {
	return &Message{
		id:         id,
		senderID:   senderID,
		receiverID: receiverID,
		content:    content,
		sentAt:     sentAt,
		createdAt:  createdAt,
	}
}

// Getters.
func (m *Message) ID() uuid.UUID         { return m.id }
func (m *Message) SenderID() uuid.UUID   { return m.senderID }
func (m *Message) ReceiverID() uuid.UUID { return m.receiverID }
func (m *Message) Content() string       { return m.content }
func (m *Message) SentAt() time.Time     { return m.sentAt }
func (m *Message) CreatedAt() time.Time  { return m.createdAt }
