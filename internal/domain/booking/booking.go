package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/shared/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CheckInWindow is how early a sitter may check in before the scheduled start.
const CheckInWindow = 15 * time.Minute

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	clientID      uuid.UUID
	sitterID      uuid.UUID
	status        BookingStatus

	scheduledStart  time.Time
	durationMinutes int
	careSpec        CareSpecification
	address         string
	city            string
	notes           string

	hourlyRate      float64
	basePrice       float64
	travelSurcharge float64
	totalPrice      float64
	currency        string

	checkInTime      *time.Time
	healthNote       string
	extensionMinutes int
	pendingExtension int

	completedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BC-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BC-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=requested.
// The base price is derived from the sitter's hourly rate and the planned
// duration; the travel surcharge is computed by the caller (it depends on
// the coordinate resolver) and fixed here.
func NewBooking(
	clientID uuid.UUID,
	sitterID uuid.UUID,
	scheduledStart time.Time,
	durationMinutes int,
	careSpec CareSpecification,
	address string,
	city string,
	hourlyRate float64,
	travelSurcharge float64,
	notes string,
) (*Booking, error) {
	if clientID == uuid.Nil {
		return nil, domain.NewValidationError("client ID is required")
	}
	if sitterID == uuid.Nil {
		return nil, domain.NewValidationError("sitter ID is required")
	}
	if clientID == sitterID {
		return nil, domain.NewValidationError("client and sitter must differ")
	}
	if scheduledStart.IsZero() {
		return nil, domain.NewValidationError("scheduled start is required")
	}
	if durationMinutes <= 0 {
		return nil, domain.NewValidationError("duration must be positive")
	}
	if err := careSpec.Validate(); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, domain.NewValidationError("service address is required")
	}
	if hourlyRate <= 0 {
		return nil, domain.NewValidationError("hourly rate must be positive")
	}
	if travelSurcharge < 0 {
		return nil, domain.NewValidationError("travel surcharge cannot be negative")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	basePrice := BaseServiceCost(hourlyRate, float64(durationMinutes)/60.0)
	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		clientID:        clientID,
		sitterID:        sitterID,
		status:          StatusRequested,
		scheduledStart:  scheduledStart.UTC(),
		durationMinutes: durationMinutes,
		careSpec:        careSpec,
		address:         address,
		city:            city,
		notes:           notes,
		hourlyRate:      hourlyRate,
		basePrice:       basePrice,
		travelSurcharge: roundCents(travelSurcharge),
		totalPrice:      roundCents(basePrice + travelSurcharge),
		currency:        "EUR",
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	clientID uuid.UUID,
	sitterID uuid.UUID,
	status BookingStatus,
	scheduledStart time.Time,
	durationMinutes int,
	careSpec CareSpecification,
	address string,
	city string,
	notes string,
	hourlyRate float64,
	basePrice float64,
	travelSurcharge float64,
	totalPrice float64,
	currency string,
	checkInTime *time.Time,
	healthNote string,
	extensionMinutes int,
	pendingExtension int,
	completedAt *time.Time,
	cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		bookingNumber:    bookingNumber,
		clientID:         clientID,
		sitterID:         sitterID,
		status:           status,
		scheduledStart:   scheduledStart,
		durationMinutes:  durationMinutes,
		careSpec:         careSpec,
		address:          address,
		city:             city,
		notes:            notes,
		hourlyRate:       hourlyRate,
		basePrice:        basePrice,
		travelSurcharge:  travelSurcharge,
		totalPrice:       totalPrice,
		currency:         currency,
		checkInTime:      checkInTime,
		healthNote:       healthNote,
		extensionMinutes: extensionMinutes,
		pendingExtension: pendingExtension,
		completedAt:      completedAt,
		cancelledAt:      cancelledAt,
		cancelNote:       cancelNote,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// ClientID returns the booking client's user ID.
func (b *Booking) ClientID() uuid.UUID { return b.clientID }

// SitterID returns the babysitter's user ID.
func (b *Booking) SitterID() uuid.UUID { return b.sitterID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// ScheduledStart returns the scheduled start time.
func (b *Booking) ScheduledStart() time.Time { return b.scheduledStart }

// DurationMinutes returns the planned duration in minutes, excluding extensions.
func (b *Booking) DurationMinutes() int { return b.durationMinutes }

// CareSpec returns the childcare specification.
func (b *Booking) CareSpec() CareSpecification { return b.careSpec }

// Address returns the service address.
func (b *Booking) Address() string { return b.address }

// City returns the service city.
func (b *Booking) City() string { return b.city }

// Notes returns the client's notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// HourlyRate returns the sitter's hourly rate fixed at booking time.
func (b *Booking) HourlyRate() float64 { return b.hourlyRate }

// BasePrice returns the rate-times-duration portion of the price.
func (b *Booking) BasePrice() float64 { return b.basePrice }

// TravelSurcharge returns the distance surcharge portion of the price.
func (b *Booking) TravelSurcharge() float64 { return b.travelSurcharge }

// TotalPrice returns the current total price including accepted extensions.
func (b *Booking) TotalPrice() float64 { return b.totalPrice }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// CheckInTime returns the sitter's check-in time, or nil before check-in.
func (b *Booking) CheckInTime() *time.Time { return b.checkInTime }

// HealthNote returns the health note recorded at check-in.
func (b *Booking) HealthNote() string { return b.healthNote }

// ExtensionMinutes returns the accepted extension minutes accumulated so far.
func (b *Booking) ExtensionMinutes() int { return b.extensionMinutes }

// PendingExtension returns the unresolved extension request in minutes, 0 if none.
func (b *Booking) PendingExtension() int { return b.pendingExtension }

// CompletedAt returns the completion time, or nil.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns the cancellation time, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// EndTime returns when the service ends: the actual start (check-in time once
// set, the scheduled start otherwise) plus the planned duration and all
// accepted extensions. Pending requests never move the end time.
func (b *Booking) EndTime() time.Time {
	start := b.scheduledStart
	if b.checkInTime != nil {
		start = *b.checkInTime
	}
	return start.Add(time.Duration(b.durationMinutes+b.extensionMinutes) * time.Minute)
}

// BelongsToClient reports whether the given user is the booking's client.
func (b *Booking) BelongsToClient(userID uuid.UUID) bool { return b.clientID == userID }

// BelongsToSitter reports whether the given user is the booking's sitter.
func (b *Booking) BelongsToSitter(userID uuid.UUID) bool { return b.sitterID == userID }

// --- Behavior ---

// ConfirmPayment transitions the booking from requested to confirmed.
// The total price is fixed from this point; only accepted extensions may
// increase it.
func (b *Booking) ConfirmPayment() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// CheckIn transitions the booking from confirmed to in_progress, recording
// the check-in time and the sitter's health note. Check-in is allowed from
// CheckInWindow before the scheduled start; earlier attempts fail NotYetDue.
func (b *Booking) CheckIn(healthNote string, now time.Time) error {
	if !b.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusInProgress))
	}
	if now.Before(b.scheduledStart.Add(-CheckInWindow)) {
		return domain.NewNotYetDueError(fmt.Sprintf(
			"check-in opens at %s", b.scheduledStart.Add(-CheckInWindow).Format(time.RFC3339)))
	}
	now = now.UTC()
	b.status = StatusInProgress
	b.checkInTime = &now
	b.healthNote = healthNote
	b.updatedAt = now
	return nil
}

// RequestExtension records a client request to extend an in-progress booking.
// A new request overwrites any prior unresolved one (last-request-wins).
func (b *Booking) RequestExtension(minutes int) error {
	if b.status != StatusInProgress {
		return domain.NewInvalidStateError("extensions can only be requested while in progress")
	}
	if minutes <= 0 {
		return domain.NewValidationError("extension minutes must be positive")
	}
	b.pendingExtension = minutes
	b.updatedAt = time.Now().UTC()
	return nil
}

// ResolveExtension settles the pending extension request. On accept the
// accepted minutes and their cost are folded into the booking; on reject
// nothing changes except clearing the request. The granted minutes and the
// price increase are returned for event payloads.
func (b *Booking) ResolveExtension(accept bool) (int, float64, error) {
	if b.status != StatusInProgress {
		return 0, 0, domain.NewInvalidStateError("extensions can only be resolved while in progress")
	}
	if b.pendingExtension == 0 {
		return 0, 0, domain.NewNoPendingRequestError()
	}

	minutes := b.pendingExtension
	b.pendingExtension = 0
	b.updatedAt = time.Now().UTC()

	if !accept {
		return minutes, 0, nil
	}

	cost := ExtensionCost(minutes, b.hourlyRate)
	b.extensionMinutes += minutes
	b.totalPrice = roundCents(b.totalPrice + cost)
	return minutes, cost, nil
}

// Complete transitions the booking from in_progress to completed.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCompleted))
	}
	now = now.UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it has not started yet.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
