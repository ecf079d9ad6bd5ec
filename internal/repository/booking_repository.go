package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/babyconnect/service-booking/internal/domain/booking"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber   string          `gorm:"uniqueIndex;not null;size:20"`
	ClientID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	SitterID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status          string          `gorm:"not null;size:30;index"`
	ScheduledStart  time.Time       `gorm:"not null;index"`
	DurationMinutes int             `gorm:"not null"`
	CareSpec        json.RawMessage `gorm:"type:jsonb;not null"`
	Address         string          `gorm:"not null;size:500"`
	City            string          `gorm:"size:100"`
	Notes           string          `gorm:"size:1000"`

	HourlyRate      float64 `gorm:"not null"`
	BasePrice       float64 `gorm:"not null"`
	TravelSurcharge float64 `gorm:"not null"`
	TotalPrice      float64 `gorm:"not null"`
	Currency        string  `gorm:"not null;size:3;default:'EUR'"`

	CheckInTime      *time.Time
	HealthNote       string `gorm:"size:1000"`
	ExtensionMinutes int    `gorm:"not null;default:0"`
	PendingExtension int    `gorm:"not null;default:0"`

	CompletedAt *time.Time
	CancelledAt *time.Time
	CancelNote  string `gorm:"size:500"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindActiveOrUpcoming retrieves the party's confirmed or in-progress booking
// nearest in time. In-progress bookings win over upcoming confirmed ones.
func (r *GormBookingRepository) FindActiveOrUpcoming(ctx context.Context, partyID uuid.UUID, role bookingDomain.PartyRole) (*bookingDomain.Booking, error) {
	column := "client_id"
	if role == bookingDomain.PartySitter {
		column = "sitter_id"
	}

	var model BookingModel
	err := r.db.WithContext(ctx).
		Where(column+" = ? AND status IN ?", partyID, []string{
			string(bookingDomain.StatusConfirmed),
			string(bookingDomain.StatusInProgress),
		}).
		Order("status = 'in_progress' DESC").
		Order("scheduled_start ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", "active or upcoming for "+partyID.String())
		}
		return nil, fmt.Errorf("failed to find active booking: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByClientID retrieves bookings for a client with pagination.
func (r *GormBookingRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findByParty(ctx, "client_id", clientID, page, limit)
}

// FindBySitterID retrieves bookings for a sitter with pagination.
func (r *GormBookingRepository) FindBySitterID(ctx context.Context, sitterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findByParty(ctx, "sitter_id", sitterID, page, limit)
}

func (r *GormBookingRepository) findByParty(ctx context.Context, column string, partyID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(column+" = ?", partyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", partyID).
		Order("scheduled_start DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// All mutable fields are written in one conditional statement, so an accepted
// extension lands its minutes, price, and cleared request atomically.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before Update).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":            model.Status,
			"scheduled_start":   model.ScheduledStart,
			"duration_minutes":  model.DurationMinutes,
			"care_spec":         model.CareSpec,
			"address":           model.Address,
			"city":              model.City,
			"notes":             model.Notes,
			"hourly_rate":       model.HourlyRate,
			"base_price":        model.BasePrice,
			"travel_surcharge":  model.TravelSurcharge,
			"total_price":       model.TotalPrice,
			"currency":          model.Currency,
			"check_in_time":     model.CheckInTime,
			"health_note":       model.HealthNote,
			"extension_minutes": model.ExtensionMinutes,
			"pending_extension": model.PendingExtension,
			"completed_at":      model.CompletedAt,
			"cancelled_at":      model.CancelledAt,
			"cancel_note":       model.CancelNote,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	careSpecJSON, err := json.Marshal(bk.CareSpec())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal care specification: %w", err)
	}

	return &BookingModel{
		ID:               bk.ID(),
		BookingNumber:    bk.BookingNumber(),
		ClientID:         bk.ClientID(),
		SitterID:         bk.SitterID(),
		Status:           string(bk.Status()),
		ScheduledStart:   bk.ScheduledStart(),
		DurationMinutes:  bk.DurationMinutes(),
		CareSpec:         careSpecJSON,
		Address:          bk.Address(),
		City:             bk.City(),
		Notes:            bk.Notes(),
		HourlyRate:       bk.HourlyRate(),
		BasePrice:        bk.BasePrice(),
		TravelSurcharge:  bk.TravelSurcharge(),
		TotalPrice:       bk.TotalPrice(),
		Currency:         bk.Currency(),
		CheckInTime:      bk.CheckInTime(),
		HealthNote:       bk.HealthNote(),
		ExtensionMinutes: bk.ExtensionMinutes(),
		PendingExtension: bk.PendingExtension(),
		CompletedAt:      bk.CompletedAt(),
		CancelledAt:      bk.CancelledAt(),
		CancelNote:       bk.CancelNote(),
		Version:          bk.Version(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var careSpec bookingDomain.CareSpecification
	if err := json.Unmarshal(m.CareSpec, &careSpec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal care specification: %w", err)
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.ClientID,
		m.SitterID,
		status,
		m.ScheduledStart,
		m.DurationMinutes,
		careSpec,
		m.Address,
		m.City,
		m.Notes,
		m.HourlyRate,
		m.BasePrice,
		m.TravelSurcharge,
		m.TotalPrice,
		m.Currency,
		m.CheckInTime,
		m.HealthNote,
		m.ExtensionMinutes,
		m.PendingExtension,
		m.CompletedAt,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
