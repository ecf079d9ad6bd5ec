package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/babyconnect/service-booking/internal/domain/booking"
	sitterDomain "github.com/babyconnect/service-booking/internal/domain/sitter"
	"github.com/babyconnect/service-booking/internal/events"
	"github.com/babyconnect/service-booking/internal/geocode"
	"github.com/babyconnect/service-booking/internal/shared/domain"
	"github.com/babyconnect/service-booking/internal/shared/kafka"
)

// EventPublisher is the slice of the Kafka producer the services need.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	SitterID       uuid.UUID                       `json:"sitter_id" binding:"required"`
	ScheduledStart time.Time                       `json:"scheduled_start" binding:"required"`
	DurationMin    int                             `json:"duration_min" binding:"required"`
	CareSpec       bookingDomain.CareSpecification `json:"care_spec" binding:"required"`
	Address        string                          `json:"address" binding:"required"`
	City           string                          `json:"city"`
	Notes          string                          `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               uuid.UUID                       `json:"id"`
	BookingNumber    string                          `json:"booking_number"`
	ClientID         uuid.UUID                       `json:"client_id"`
	SitterID         uuid.UUID                       `json:"sitter_id"`
	Status           string                          `json:"status"`
	ScheduledStart   time.Time                       `json:"scheduled_start"`
	DurationMin      int                             `json:"duration_min"`
	CareSpec         bookingDomain.CareSpecification `json:"care_spec"`
	Address          string                          `json:"address"`
	City             string                          `json:"city,omitempty"`
	Notes            string                          `json:"notes,omitempty"`
	HourlyRate       float64                         `json:"hourly_rate"`
	BasePrice        float64                         `json:"base_price"`
	TravelSurcharge  float64                         `json:"travel_surcharge"`
	TotalPrice       float64                         `json:"total_price"`
	Currency         string                          `json:"currency"`
	CheckInTime      *time.Time                      `json:"check_in_time,omitempty"`
	HealthNote       string                          `json:"health_note,omitempty"`
	ExtensionMinutes int                             `json:"extension_minutes"`
	PendingExtension int                             `json:"pending_extension"`
	CompletedAt      *time.Time                      `json:"completed_at,omitempty"`
	CancelledAt      *time.Time                      `json:"cancelled_at,omitempty"`
	CancelNote       string                          `json:"cancel_note,omitempty"`
	Version          int64                           `json:"version"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

// LiveStatusDTO is the polling view of an active booking: current state,
// countdown, and any pending extension awaiting the sitter's decision.
type LiveStatusDTO struct {
	BookingID        uuid.UUID                   `json:"booking_id"`
	Status           string                      `json:"status"`
	TimeRemaining    bookingDomain.TimeRemaining `json:"time_remaining"`
	ExtensionMinutes int                         `json:"extension_minutes"`
	PendingExtension int                         `json:"pending_extension"`
	TotalPrice       float64                     `json:"total_price"`
	EndTime          time.Time                   `json:"end_time"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	sitters  sitterDomain.SitterRepository
	resolver geocode.Resolver
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	sitters sitterDomain.SitterRepository,
	resolver geocode.Resolver,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		sitters:  sitters,
		resolver: resolver,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking creates a new booking for the given client. The sitter's
// hourly rate is fixed into the booking, and the travel surcharge is derived
// from the distance between the sitter's address and the service address,
// falling back to the default distance when either fails to geocode.
func (s *BookingService) CreateBooking(ctx context.Context, clientID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	profile, err := s.sitters.FindByID(ctx, req.SitterID)
	if err != nil {
		return nil, err
	}

	distanceKm := s.travelDistance(ctx, profile.Address(), req.Address)
	surcharge := bookingDomain.TravelSurcharge(distanceKm)

	bk, err := bookingDomain.NewBooking(
		clientID,
		profile.UserID(),
		req.ScheduledStart,
		req.DurationMin,
		req.CareSpec,
		req.Address,
		req.City,
		profile.HourlyRate(),
		surcharge,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	evt := events.BookingRequestedEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		ClientID:       bk.ClientID(),
		SitterID:       bk.SitterID(),
		ScheduledStart: bk.ScheduledStart(),
		DurationMin:    bk.DurationMinutes(),
		TotalPrice:     bk.TotalPrice(),
		Currency:       bk.Currency(),
		OccurredAt:     time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// travelDistance resolves both endpoints and measures the distance between
// them, substituting the default distance whenever resolution fails.
func (s *BookingService) travelDistance(ctx context.Context, sitterAddress, serviceAddress string) float64 {
	if s.resolver == nil {
		return bookingDomain.DefaultDistanceKm
	}

	from, err := s.resolver.Resolve(ctx, sitterAddress)
	if err != nil || from == nil {
		return bookingDomain.DefaultDistanceKm
	}
	to, err := s.resolver.Resolve(ctx, serviceAddress)
	if err != nil || to == nil {
		return bookingDomain.DefaultDistanceKm
	}

	return bookingDomain.HaversineKm(*from, *to)
}

// ConfirmPayment confirms a requested booking once its payment clears.
// Triggered by the payment event consumer.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.ConfirmPayment(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingConfirmedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		SitterID:      bk.SitterID(),
		TotalPrice:    bk.TotalPrice(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingConfirmed, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckIn marks the actual start of a confirmed booking. Only the booking's
// sitter may check in, and only within the check-in window.
func (s *BookingService) CheckIn(ctx context.Context, bookingID, sitterUserID uuid.UUID, healthNote string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.BelongsToSitter(sitterUserID) {
		return nil, domain.NewForbiddenError("booking is not assigned to this sitter")
	}

	if err := bk.CheckIn(healthNote, time.Now().UTC()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCheckedInEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		SitterID:      bk.SitterID(),
		ClientID:      bk.ClientID(),
		CheckInTime:   *bk.CheckInTime(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCheckedIn, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// RequestExtension records a client's request to extend an in-progress
// booking. A new request overwrites an unresolved one.
func (s *BookingService) RequestExtension(ctx context.Context, bookingID, clientUserID uuid.UUID, minutes int) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.BelongsToClient(clientUserID) {
		return nil, domain.NewForbiddenError("only the booking's client may request an extension")
	}

	if err := bk.RequestExtension(minutes); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.ExtensionRequestedEvent{
		BookingID:  bk.ID(),
		ClientID:   bk.ClientID(),
		SitterID:   bk.SitterID(),
		Minutes:    minutes,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingExtensionRequested, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ResolveExtension settles the pending extension request. Only the booking's
// sitter may resolve. Acceptance extends the end time and raises the price;
// rejection clears the request and changes nothing else.
func (s *BookingService) ResolveExtension(ctx context.Context, bookingID, sitterUserID uuid.UUID, accept bool) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.BelongsToSitter(sitterUserID) {
		return nil, domain.NewForbiddenError("only the booking's sitter may resolve an extension")
	}

	minutes, cost, err := bk.ResolveExtension(accept)
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	eventType := events.BookingExtensionRejected
	if accept {
		eventType = events.BookingExtensionAccepted
	}
	evt := events.ExtensionResolvedEvent{
		BookingID:     bk.ID(),
		SitterID:      bk.SitterID(),
		ClientID:      bk.ClientID(),
		Minutes:       minutes,
		Accepted:      accept,
		CostIncrease:  cost,
		NewTotalPrice: bk.TotalPrice(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking closes an in-progress booking explicitly (sitter action).
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, sitterUserID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.BelongsToSitter(sitterUserID) {
		return nil, domain.NewForbiddenError("only the booking's sitter may complete it")
	}

	return s.complete(ctx, bk)
}

// AutoComplete completes an in-progress booking whose end time has elapsed.
// Used by the live watcher; a booking still inside its window is left alone.
func (s *BookingService) AutoComplete(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.Before(bk.EndTime()) {
		return nil, domain.NewNotYetDueError("booking has not reached its end time")
	}

	return s.complete(ctx, bk)
}

func (s *BookingService) complete(ctx context.Context, bk *bookingDomain.Booking) (*BookingDTO, error) {
	if err := bk.Complete(time.Now().UTC()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCompletedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		SitterID:      bk.SitterID(),
		TotalPrice:    bk.TotalPrice(),
		Currency:      bk.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCompleted, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking that has not started. Either party may
// cancel their own booking.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, cancelledBy uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.BelongsToClient(cancelledBy) && !bk.BelongsToSitter(cancelledBy) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CancelledBy:   cancelledBy,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID, restricted to its parties.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.BelongsToClient(userID) && !bk.BelongsToSitter(userID) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetLiveStatus returns the polling view of a booking: status, countdown,
// and pending extension. Both parties poll this on an interval.
func (s *BookingService) GetLiveStatus(ctx context.Context, bookingID, userID uuid.UUID) (*LiveStatusDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.BelongsToClient(userID) && !bk.BelongsToSitter(userID) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	return &LiveStatusDTO{
		BookingID:        bk.ID(),
		Status:           string(bk.Status()),
		TimeRemaining:    bookingDomain.ComputeTimeRemaining(bk, time.Now().UTC()),
		ExtensionMinutes: bk.ExtensionMinutes(),
		PendingExtension: bk.PendingExtension(),
		TotalPrice:       bk.TotalPrice(),
		EndTime:          bk.EndTime(),
	}, nil
}

// GetActiveOrUpcoming returns the caller's nearest confirmed or in-progress
// booking.
func (s *BookingService) GetActiveOrUpcoming(ctx context.Context, userID uuid.UUID, role bookingDomain.PartyRole) (*BookingDTO, error) {
	bk, err := s.repo.FindActiveOrUpcoming(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetClientBookings retrieves paginated bookings for a client.
func (s *BookingService) GetClientBookings(ctx context.Context, clientID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByClientID(ctx, clientID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetSitterBookings retrieves paginated bookings for a sitter.
func (s *BookingService) GetSitterBookings(ctx context.Context, sitterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindBySitterID(ctx, sitterID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:               bk.ID(),
		BookingNumber:    bk.BookingNumber(),
		ClientID:         bk.ClientID(),
		SitterID:         bk.SitterID(),
		Status:           string(bk.Status()),
		ScheduledStart:   bk.ScheduledStart(),
		DurationMin:      bk.DurationMinutes(),
		CareSpec:         bk.CareSpec(),
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
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
