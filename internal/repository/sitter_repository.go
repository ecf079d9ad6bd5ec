package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sitterDomain "github.com/babyconnect/service-booking/internal/domain/sitter"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// SitterModel is the GORM model for the sitters table.
type SitterModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name            string    `gorm:"not null;size:200"`
	City            string    `gorm:"size:100;index"`
	Address         string    `gorm:"size:500"`
	Bio             string    `gorm:"size:2000"`
	PhotoURL        string    `gorm:"size:500"`
	HourlyRate      float64   `gorm:"not null"`
	Rating          float64   `gorm:"not null;default:5.0"`
	YearsExperience int       `gorm:"not null;default:0"`
	Status          string    `gorm:"not null;size:20;default:'active'"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SitterModel) TableName() string {
	return "sitters"
}

// GormSitterRepository is the GORM-based implementation of SitterRepository.
type GormSitterRepository struct {
	db *gorm.DB
}

// NewGormSitterRepository creates a new GormSitterRepository.
func NewGormSitterRepository(db *gorm.DB) *GormSitterRepository {
	return &GormSitterRepository{db: db}
}

// FindByID retrieves a sitter profile by its identifier.
func (r *GormSitterRepository) FindByID(ctx context.Context, id uuid.UUID) (*sitterDomain.Sitter, error) {
	var model SitterModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Sitter", id.String())
		}
		return nil, fmt.Errorf("failed to find sitter by ID: %w", err)
	}
	return toDomainSitter(&model), nil
}

// FindByUserID retrieves a sitter profile by the owning user account.
func (r *GormSitterRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*sitterDomain.Sitter, error) {
	var model SitterModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Sitter", userID.String())
		}
		return nil, fmt.Errorf("failed to find sitter by user ID: %w", err)
	}
	return toDomainSitter(&model), nil
}

// Search retrieves active sitter profiles matching the filter, paginated,
// best rated first.
func (r *GormSitterRepository) Search(ctx context.Context, filter sitterDomain.SearchFilter, page, limit int) ([]*sitterDomain.Sitter, int64, error) {
	query := r.db.WithContext(ctx).Model(&SitterModel{}).
		Where("status = ?", string(sitterDomain.SitterStatusActive))
	if filter.City != "" {
		query = query.Where("city ILIKE ?", filter.City)
	}
	if filter.MaxHourlyRate > 0 {
		query = query.Where("hourly_rate <= ?", filter.MaxHourlyRate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sitters: %w", err)
	}

	var models []SitterModel
	offset := (page - 1) * limit
	if err := query.
		Order("rating DESC, hourly_rate ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search sitters: %w", err)
	}

	sitters := make([]*sitterDomain.Sitter, len(models))
	for i, m := range models {
		sitters[i] = toDomainSitter(&m)
	}

	return sitters, total, nil
}

// Save persists a new sitter profile.
func (r *GormSitterRepository) Save(ctx context.Context, s *sitterDomain.Sitter) error {
	model := toSitterModel(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save sitter: %w", err)
	}
	return nil
}

// Update persists changes to an existing sitter profile with optimistic locking.
func (r *GormSitterRepository) Update(ctx context.Context, s *sitterDomain.Sitter) error {
	model := toSitterModel(s)

	expectedVersion := s.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&SitterModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":             model.Name,
			"city":             model.City,
			"address":          model.Address,
			"bio":              model.Bio,
			"photo_url":        model.PhotoURL,
			"hourly_rate":      model.HourlyRate,
			"rating":           model.Rating,
			"years_experience": model.YearsExperience,
			"status":           model.Status,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update sitter: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("sitter profile was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toSitterModel(s *sitterDomain.Sitter) *SitterModel {
	return &SitterModel{
		ID:              s.ID(),
		UserID:          s.UserID(),
		Name:            s.Name(),
		City:            s.City(),
		Address:         s.Address(),
		Bio:             s.Bio(),
		PhotoURL:        s.PhotoURL(),
		HourlyRate:      s.HourlyRate(),
		Rating:          s.Rating(),
		YearsExperience: s.YearsExperience(),
		Status:          string(s.Status()),
		Version:         s.Version(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func toDomainSitter(m *SitterModel) *sitterDomain.Sitter {
	return sitterDomain.Reconstruct(
		m.ID,
		m.UserID,
		m.Name,
		m.City,
		m.Address,
		m.Bio,
		m.PhotoURL,
		m.HourlyRate,
		m.Rating,
		m.YearsExperience,
		sitterDomain.SitterStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
