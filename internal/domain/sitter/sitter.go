package sitter

import (
	"time"

	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// SitterStatus represents the lifecycle state of a sitter profile.
type SitterStatus string

const (
	SitterStatusActive   SitterStatus = "active"
	SitterStatusArchived SitterStatus = "archived"
)

// Sitter is the aggregate root for a babysitter's marketplace profile.
type Sitter struct {
	id              uuid.UUID
	userID          uuid.UUID
	name            string
	city            string
	address         string
	bio             string
	photoURL        string
	hourlyRate      float64
	rating          float64
	yearsExperience int
	status          SitterStatus
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSitter creates a new active sitter profile with validated fields.
func NewSitter(
	userID uuid.UUID,
	name, city, address, bio, photoURL string,
	hourlyRate float64,
	yearsExperience int,
) (*Sitter, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("sitter name is required")
	}
	if city == "" {
		return nil, domain.NewValidationError("city is required")
	}
	if hourlyRate <= 0 {
		return nil, domain.NewValidationError("hourly rate must be positive")
	}

	now := time.Now().UTC()
	return &Sitter{
		id:              uuid.New(),
		userID:          userID,
		name:            name,
		city:            city,
		address:         address,
		bio:             bio,
		photoURL:        photoURL,
		hourlyRate:      hourlyRate,
		rating:          5.0,
		yearsExperience: yearsExperience,
		status:          SitterStatusActive,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Sitter from persistence data (no validation).
func Reconstruct(
	id, userID uuid.UUID,
	name, city, address, bio, photoURL string,
	hourlyRate, rating float64,
	yearsExperience int,
	status SitterStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Sitter {
	return &Sitter{
		id:              id,
		userID:          userID,
		name:            name,
		city:            city,
		address:         address,
		bio:             bio,
		photoURL:        photoURL,
		hourlyRate:      hourlyRate,
		rating:          rating,
		yearsExperience: yearsExperience,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Getters.
func (s *Sitter) ID() uuid.UUID        { return s.id }
func (s *Sitter) UserID() uuid.UUID    { return s.userID }
func (s *Sitter) Name() string         { return s.name }
func (s *Sitter) City() string         { return s.city }
func (s *Sitter) Address() string      { return s.address }
func (s *Sitter) Bio() string          { return s.bio }
func (s *Sitter) PhotoURL() string     { return s.photoURL }
func (s *Sitter) HourlyRate() float64  { return s.hourlyRate }
func (s *Sitter) Rating() float64      { return s.rating }
func (s *Sitter) YearsExperience() int { return s.yearsExperience }
func (s *Sitter) Status() SitterStatus { return s.status }
func (s *Sitter) Version() int64       { return s.version }
func (s *Sitter) CreatedAt() time.Time { return s.createdAt }
func (s *Sitter) UpdatedAt() time.Time { return s.updatedAt }

// UpdateProfile replaces the editable profile fields.
func (s *Sitter) UpdateProfile(city, address, bio, photoURL string, hourlyRate float64, yearsExperience int) error {
	if city == "" {
		return domain.NewValidationError("city is required")
	}
	if hourlyRate <= 0 {
		return domain.NewValidationError("hourly rate must be positive")
	}
	s.city = city
	s.address = address
	s.bio = bio
	s.photoURL = photoURL
	s.hourlyRate = hourlyRate
	s.yearsExperience = yearsExperience
	s.updatedAt = time.Now().UTC()
	return nil
}

// Archive removes the sitter from search results.
func (s *Sitter) Archive() {
	s.status = SitterStatusArchived
	s.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (s *Sitter) IncrementVersion() {
	s.version++
	s.updatedAt = time.Now().UTC()
}
