package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sitterDomain "github.com/babyconnect/service-booking/internal/domain/sitter"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// CreateSitterRequest is the request DTO for creating a sitter profile.
type CreateSitterRequest struct {
	Name            string  `json:"name" binding:"required"`
	City            string  `json:"city" binding:"required"`
	Address         string  `json:"address"`
	Bio             string  `json:"bio"`
	PhotoURL        string  `json:"photo_url"`
	HourlyRate      float64 `json:"hourly_rate" binding:"required"`
	YearsExperience int     `json:"years_experience"`
}

// UpdateSitterRequest is the request DTO for updating a sitter profile.
type UpdateSitterRequest struct {
	City            string  `json:"city"`
	Address         string  `json:"address"`
	Bio             string  `json:"bio"`
	PhotoURL        string  `json:"photo_url"`
	HourlyRate      float64 `json:"hourly_rate"`
	YearsExperience int     `json:"years_experience"`
}

// SitterDTO is the API response representation of a sitter profile.
type SitterDTO struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	City            string    `json:"city"`
	Address         string    `json:"address,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	HourlyRate      float64   `json:"hourly_rate"`
	Rating          float64   `json:"rating"`
	YearsExperience int       `json:"years_experience"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SitterService implements use cases for the sitter directory.
type SitterService struct {
	repo   sitterDomain.SitterRepository
	logger *zap.Logger
}

// NewSitterService creates a new SitterService.
func NewSitterService(repo sitterDomain.SitterRepository, logger *zap.Logger) *SitterService {
	return &SitterService{repo: repo, logger: logger}
}

// CreateSitter creates a new sitter profile for the given user.
func (s *SitterService) CreateSitter(ctx context.Context, userID uuid.UUID, req CreateSitterRequest) (*SitterDTO, error) {
	profile, err := sitterDomain.NewSitter(
		userID,
		req.Name, req.City, req.Address, req.Bio, req.PhotoURL,
		req.HourlyRate, req.YearsExperience,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid sitter data: %w", err)
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		s.logger.Error("failed to create sitter profile", zap.Error(err))
		return nil, fmt.Errorf("failed to create sitter profile: %w", err)
	}

	s.logger.Info("sitter profile created",
		zap.String("sitter_id", profile.ID().String()),
		zap.String("city", profile.City()),
	)

	result := toSitterDTO(profile)
	return &result, nil
}

// GetSitter retrieves a sitter profile by ID.
func (s *SitterService) GetSitter(ctx context.Context, sitterID uuid.UUID) (*SitterDTO, error) {
	profile, err := s.repo.FindByID(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	result := toSitterDTO(profile)
	return &result, nil
}

// SearchSitters searches the directory by city and maximum hourly rate.
func (s *SitterService) SearchSitters(ctx context.Context, filter sitterDomain.SearchFilter, page, limit int) (*domain.PaginatedResult[SitterDTO], error) {
	sitters, total, err := s.repo.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]SitterDTO, len(sitters))
	for i, p := range sitters {
		dtos[i] = toSitterDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateSitter updates the caller's own sitter profile.
func (s *SitterService) UpdateSitter(ctx context.Context, userID uuid.UUID, req UpdateSitterRequest) (*SitterDTO, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := profile.UpdateProfile(req.City, req.Address, req.Bio, req.PhotoURL, req.HourlyRate, req.YearsExperience); err != nil {
		return nil, err
	}

	profile.IncrementVersion()
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	result := toSitterDTO(profile)
	return &result, nil
}

func toSitterDTO(p *sitterDomain.Sitter) SitterDTO {
	return SitterDTO{
		ID:              p.ID(),
		UserID:          p.UserID(),
		Name:            p.Name(),
		City:            p.City(),
		Address:         p.Address(),
		Bio:             p.Bio(),
		PhotoURL:        p.PhotoURL(),
		HourlyRate:      p.HourlyRate(),
		Rating:          p.Rating(),
		YearsExperience: p.YearsExperience(),
		Status:          string(p.Status()),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}
