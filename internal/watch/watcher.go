// Package watch provides a per-session poller that keeps a live view of a
// booking fresh and closes sessions whose time has run out.
package watch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/babyconnect/service-booking/internal/domain/booking"
	"github.com/babyconnect/service-booking/internal/shared/domain"
)

const (
	// DefaultActiveInterval is the poll interval while a session is in progress.
	DefaultActiveInterval = 5 * time.Second
	// DefaultIdleInterval is the poll interval while waiting for a session to start.
	DefaultIdleInterval = 30 * time.Second
)

// Completer closes an in-progress booking whose scheduled time has elapsed.
type Completer interface {
	AutoComplete(ctx context.Context, bookingID uuid.UUID) error
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, bookingID uuid.UUID) error

// AutoComplete calls the wrapped function.
func (f CompleterFunc) AutoComplete(ctx context.Context, bookingID uuid.UUID) error {
	return f(ctx, bookingID)
}

// RefreshFunc receives each fresh snapshot of the watched booking.
type RefreshFunc func(b *bookingDomain.Booking, remaining bookingDomain.TimeRemaining)

// SessionWatcher polls a booking on an interval and pushes snapshots to a
// refresh callback. The interval tightens while the session is in progress.
type SessionWatcher struct {
	repo           bookingDomain.BookingRepository
	completer      Completer
	logger         *zap.Logger
	activeInterval time.Duration
	idleInterval   time.Duration
}

// NewSessionWatcher creates a SessionWatcher with the default intervals.
func NewSessionWatcher(repo bookingDomain.BookingRepository, completer Completer, logger *zap.Logger) *SessionWatcher {
	return &SessionWatcher{
		repo:           repo,
		completer:      completer,
		logger:         logger,
		activeInterval: DefaultActiveInterval,
		idleInterval:   DefaultIdleInterval,
	}
}

// WithIntervals overrides the poll intervals. Intended for tests and for
// deployments that want a slower cadence.
func (w *SessionWatcher) WithIntervals(active, idle time.Duration) *SessionWatcher {
	w.activeInterval = active
	w.idleInterval = idle
	return w
}

// Watch polls the booking until it reaches a terminal status or ctx is
// cancelled. Each poll re-reads the booking, reports it through refresh, and
// auto-completes an in-progress session whose end time has passed. Returns
// nil when the booking terminates, ctx.Err() on cancellation.
func (w *SessionWatcher) Watch(ctx context.Context, bookingID uuid.UUID, refresh RefreshFunc) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		done, interval, err := w.poll(ctx, bookingID, refresh)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		timer.Reset(interval)
	}
}

func (w *SessionWatcher) poll(ctx context.Context, bookingID uuid.UUID, refresh RefreshFunc) (bool, time.Duration, error) {
	bk, err := w.repo.FindByID(ctx, bookingID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return false, 0, err
		}
		// Transient read failures keep the watcher alive.
		w.logger.Warn("watch poll failed",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err))
		return false, w.idleInterval, nil
	}

	now := time.Now()
	remaining := bookingDomain.ComputeTimeRemaining(bk, now)
	if refresh != nil {
		refresh(bk, remaining)
	}

	if bk.Status().IsTerminal() {
		return true, 0, nil
	}

	if bk.Status() == bookingDomain.StatusInProgress && !now.Before(bk.EndTime()) {
		if err := w.completer.AutoComplete(ctx, bookingID); err != nil {
			// A conflict means another poller got there first.
			if !domain.IsCode(err, domain.CodeConflict) {
				w.logger.Warn("auto-complete failed",
					zap.String("booking_id", bookingID.String()),
					zap.Error(err))
			}
		}
		return false, w.activeInterval, nil
	}

	if bk.Status() == bookingDomain.StatusInProgress {
		return false, w.activeInterval, nil
	}
	return false, w.idleInterval, nil
}
