package booking

import (
	"context"

	"github.com/google/uuid"
)

// PartyRole identifies which side of a booking a user is on.
type PartyRole string

const (
	PartyClient PartyRole = "client"
	PartySitter PartyRole = "sitter"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindActiveOrUpcoming retrieves the party's confirmed or in-progress
	// booking nearest in time, or a not-found error if there is none.
	FindActiveOrUpcoming(ctx context.Context, partyID uuid.UUID, role PartyRole) (*Booking, error)

	// FindByClientID retrieves bookings belonging to a client with pagination.
	FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindBySitterID retrieves bookings assigned to a sitter with pagination.
	FindBySitterID(ctx context.Context, sitterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
