// Package events defines the bus topics and payloads the booking service
// publishes and consumes, plus the payment event consumer.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types on booking.events.
const (
	BookingRequested          = "booking.requested"
	BookingConfirmed          = "booking.confirmed"
	BookingCheckedIn          = "booking.checked_in"
	BookingExtensionRequested = "booking.extension_requested"
	BookingExtensionAccepted  = "booking.extension_accepted"
	BookingExtensionRejected  = "booking.extension_rejected"
	BookingCompleted          = "booking.completed"
	BookingCancelled          = "booking.cancelled"
)

// Event types on payment.events.
const (
	PaymentConfirmed = "payment.confirmed"
)

// BookingRequestedEvent is published when a client creates a booking.
type BookingRequestedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	ClientID       uuid.UUID `json:"client_id"`
	SitterID       uuid.UUID `json:"sitter_id"`
	ScheduledStart time.Time `json:"scheduled_start"`
	DurationMin    int       `json:"duration_min"`
	TotalPrice     float64   `json:"total_price"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published once payment fixes the booking price.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	SitterID      uuid.UUID `json:"sitter_id"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCheckedInEvent is published at the sitter's check-in.
type BookingCheckedInEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	SitterID      uuid.UUID `json:"sitter_id"`
	ClientID      uuid.UUID `json:"client_id"`
	CheckInTime   time.Time `json:"check_in_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ExtensionRequestedEvent is published when a client asks for more time.
type ExtensionRequestedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ClientID   uuid.UUID `json:"client_id"`
	SitterID   uuid.UUID `json:"sitter_id"`
	Minutes    int       `json:"minutes"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ExtensionResolvedEvent is published when a sitter accepts or rejects a
// pending extension request.
type ExtensionResolvedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	SitterID      uuid.UUID `json:"sitter_id"`
	ClientID      uuid.UUID `json:"client_id"`
	Minutes       int       `json:"minutes"`
	Accepted      bool      `json:"accepted"`
	CostIncrease  float64   `json:"cost_increase"`
	NewTotalPrice float64   `json:"new_total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCompletedEvent is published when a booking finishes.
type BookingCompletedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	SitterID      uuid.UUID `json:"sitter_id"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentConfirmedEvent is consumed from the payment service; it confirms a
// requested booking.
type PaymentConfirmedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ClientID   uuid.UUID `json:"client_id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}
