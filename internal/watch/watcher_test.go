package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/babyconnect/service-booking/internal/domain/booking"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

// stubRepo serves a single booking; only FindByID is exercised by the watcher.
type stubRepo struct {
	mu sync.Mutex
	bk *bookingDomain.Booking
}

func (r *stubRepo) set(bk *bookingDomain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bk = bk
}

func (r *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bk == nil || r.bk.ID() != id {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return r.bk, nil
}

func (r *stubRepo) FindByNumber(context.Context, string) (*bookingDomain.Booking, error) {
	panic("not used")
}

func (r *stubRepo) FindActiveOrUpcoming(context.Context, uuid.UUID, bookingDomain.PartyRole) (*bookingDomain.Booking, error) {
	panic("not used")
}

func (r *stubRepo) FindByClientID(context.Context, uuid.UUID, int, int) ([]*bookingDomain.Booking, int64, error) {
	panic("not used")
}

func (r *stubRepo) FindBySitterID(context.Context, uuid.UUID, int, int) ([]*bookingDomain.Booking, int64, error) {
	panic("not used")
}

func (r *stubRepo) ListAll(context.Context, int, int) ([]*bookingDomain.Booking, int64, error) {
	panic("not used")
}

func (r *stubRepo) CountByStatus(context.Context) (map[string]int64, error) {
	panic("not used")
}

func (r *stubRepo) Save(context.Context, *bookingDomain.Booking) error { return nil }
func (r *stubRepo) Update(context.Context, *bookingDomain.Booking) error { return nil }

func makeBooking(t *testing.T, status bookingDomain.BookingStatus, start time.Time, durationMin int, checkIn *time.Time) *bookingDomain.Booking {
	t.Helper()
	now := time.Now().UTC()
	return bookingDomain.ReconstructBooking(
		uuid.New(), "BC-TEST01", uuid.New(), uuid.New(), status,
		start, durationMin,
		bookingDomain.CareSpecification{ChildrenCount: 1, ChildrenAges: "5"},
		"Rua das Flores 12", "Lisboa", "",
		10.0, 10.0, 13.50, 23.50, "EUR",
		checkIn, "", 0, 0,
		nil, nil, "",
		1, now, now,
	)
}

func TestWatch_StopsOnTerminalStatus(t *testing.T) {
	repo := &stubRepo{}
	inProgressStart := time.Now().UTC().Add(-10 * time.Minute)
	checkIn := inProgressStart
	bk := makeBooking(t, bookingDomain.StatusInProgress, inProgressStart, 60, &checkIn)
	repo.set(bk)

	w := NewSessionWatcher(repo, CompleterFunc(func(context.Context, uuid.UUID) error {
		return nil
	}), zap.NewNop()).WithIntervals(5*time.Millisecond, 5*time.Millisecond)

	var mu sync.Mutex
	var snapshots []bookingDomain.TimeRemaining
	done := make(chan error, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() {
		done <- w.Watch(ctx, bk.ID(), func(_ *bookingDomain.Booking, tr bookingDomain.TimeRemaining) {
			mu.Lock()
			snapshots = append(snapshots, tr)
			mu.Unlock()
		})
	}()

	// After a few polls, terminate the booking.
	time.Sleep(30 * time.Millisecond)
	now := time.Now().UTC()
	repo.set(bookingDomain.ReconstructBooking(
		bk.ID(), bk.BookingNumber(), bk.ClientID(), bk.SitterID(), bookingDomain.StatusCompleted,
		inProgressStart, 60, bk.CareSpec(),
		bk.Address(), bk.City(), "",
		10.0, 10.0, 13.50, 23.50, "EUR",
		&checkIn, "", 0, 0, &now, nil, "", 2, bk.CreatedAt(), now,
	))

	require.NoError(t, <-done)
	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, snapshots)
	assert.True(t, snapshots[0].Started)
}

func TestWatch_AutoCompletesElapsedSession(t *testing.T) {
	repo := &stubRepo{}
	start := time.Now().UTC().Add(-2 * time.Hour)
	checkIn := start
	bk := makeBooking(t, bookingDomain.StatusInProgress, start, 60, &checkIn)
	repo.set(bk)

	completions := make(chan uuid.UUID, 1)
	w := NewSessionWatcher(repo, CompleterFunc(func(_ context.Context, id uuid.UUID) error {
		select {
		case completions <- id:
		default:
		}
		return nil
	}), zap.NewNop()).WithIntervals(5*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = w.Watch(ctx, bk.ID(), nil) }()

	select {
	case id := <-completions:
		assert.Equal(t, bk.ID(), id)
	case <-ctx.Done():
		t.Fatal("watcher never attempted auto-completion")
	}
}

func TestWatch_CancelledContext(t *testing.T) {
	repo := &stubRepo{}
	start := time.Now().UTC().Add(time.Hour)
	bk := makeBooking(t, bookingDomain.StatusConfirmed, start, 60, nil)
	repo.set(bk)

	w := NewSessionWatcher(repo, CompleterFunc(func(context.Context, uuid.UUID) error {
		return nil
	}), zap.NewNop()).WithIntervals(5*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, bk.ID(), nil) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch_UnknownBooking(t *testing.T) {
	repo := &stubRepo{}
	w := NewSessionWatcher(repo, CompleterFunc(func(context.Context, uuid.UUID) error {
		return nil
	}), zap.NewNop())

	err := w.Watch(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
