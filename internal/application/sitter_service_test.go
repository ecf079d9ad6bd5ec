package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babyconnect/service-booking/internal/shared/domain"
)

func TestSitterService_CreateAndGet(t *testing.T) {
	svc := NewSitterService(newFakeSitterRepo(), zap.NewNop())
	userID := uuid.New()

	created, err := svc.CreateSitter(context.Background(), userID, CreateSitterRequest{
		Name:            "Ana Ferreira",
		City:            "Lisboa",
		Address:         "Av. da Liberdade 100",
		HourlyRate:      12.5,
		YearsExperience: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "active", created.Status)
	// New profiles start with the default rating.
	assert.InDelta(t, 5.0, created.Rating, 0.001)

	got, err := svc.GetSitter(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.InDelta(t, 12.5, got.HourlyRate, 0.001)
}

func TestSitterService_CreateValidation(t *testing.T) {
	svc := NewSitterService(newFakeSitterRepo(), zap.NewNop())

	_, err := svc.CreateSitter(context.Background(), uuid.New(), CreateSitterRequest{
		Name: "No City", HourlyRate: 10,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = svc.CreateSitter(context.Background(), uuid.New(), CreateSitterRequest{
		Name: "Free Sitter", City: "Porto", HourlyRate: 0,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestSitterService_UpdateSitter(t *testing.T) {
	repo := newFakeSitterRepo()
	svc := NewSitterService(repo, zap.NewNop())
	userID := uuid.New()

	created, err := svc.CreateSitter(context.Background(), userID, CreateSitterRequest{
		Name: "Ana Ferreira", City: "Lisboa", HourlyRate: 12.5,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSitter(context.Background(), userID, UpdateSitterRequest{
		City:            "Porto",
		Address:         "Rua de Cedofeita 50",
		HourlyRate:      15.0,
		YearsExperience: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Porto", updated.City)
	assert.InDelta(t, 15.0, updated.HourlyRate, 0.001)

	_, err = svc.UpdateSitter(context.Background(), uuid.New(), UpdateSitterRequest{
		City: "Porto", HourlyRate: 15,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
