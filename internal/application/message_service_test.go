package application

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	messageDomain "github.com/babyconnect/service-booking/internal/domain/message"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*messageDomain.Message
}

func (r *fakeMessageRepo) Save(_ context.Context, msg *messageDomain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) FindConversation(_ context.Context, userA, userB uuid.UUID, _, _ int) ([]*messageDomain.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*messageDomain.Message
	for _, m := range r.messages {
		pair := (m.SenderID() == userA && m.ReceiverID() == userB) ||
			(m.SenderID() == userB && m.ReceiverID() == userA)
		if pair {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

func TestMessageService_SendAndFetch(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, zap.NewNop())
	client := uuid.New()
	sitter := uuid.New()

	sent, err := svc.SendMessage(context.Background(), client, SendMessageRequest{
		ReceiverID: sitter,
		Content:    "Can you stay 30 more minutes?",
	})
	require.NoError(t, err)
	assert.Equal(t, client, sent.SenderID)

	_, err = svc.SendMessage(context.Background(), sitter, SendMessageRequest{
		ReceiverID: client,
		Content:    "Sure, no problem.",
	})
	require.NoError(t, err)

	// The conversation reads the same from either side.
	fromClient, err := svc.GetConversation(context.Background(), client, sitter, 1, 20)
	require.NoError(t, err)
	require.Len(t, fromClient.Items, 2)

	fromSitter, err := svc.GetConversation(context.Background(), sitter, client, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, fromClient.Total, fromSitter.Total)

	// A third party has no conversation with either.
	other, err := svc.GetConversation(context.Background(), uuid.New(), client, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestMessageService_Validation(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, zap.NewNop())
	sender := uuid.New()

	_, err := svc.SendMessage(context.Background(), sender, SendMessageRequest{
		ReceiverID: sender,
		Content:    "talking to myself",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = svc.SendMessage(context.Background(), sender, SendMessageRequest{
		ReceiverID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}
