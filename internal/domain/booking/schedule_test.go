package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTimeRemaining(t *testing.T) {
	start := time.Date(2026, 3, 14, 14, 15, 0, 0, time.UTC)

	t.Run("not started", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)

		tr := ComputeTimeRemaining(bk, start.Add(-time.Hour))
		assert.False(t, tr.Started)
		assert.Equal(t, 60, tr.MinutesLeft)
		assert.Zero(t, tr.Progress)
		assert.Equal(t, "15:15", tr.EndLabel)
	})

	t.Run("at check-in", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)

		tr := ComputeTimeRemaining(bk, start)
		assert.True(t, tr.Started)
		assert.Equal(t, 60, tr.MinutesLeft)
		assert.InDelta(t, 0.0, tr.Progress, 0.001)
		assert.Equal(t, "15:15", tr.EndLabel)
	})

	t.Run("mid session", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)

		// 14:15 + 60min ends 15:15; at 15:10 five minutes remain.
		tr := ComputeTimeRemaining(bk, start.Add(55*time.Minute))
		assert.True(t, tr.Started)
		assert.Equal(t, 5, tr.MinutesLeft)
		assert.InDelta(t, 1.0-300.0/3600.0, tr.Progress, 0.001)
		assert.Equal(t, "15:15", tr.EndLabel)
	})

	t.Run("elapsed", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)

		tr := ComputeTimeRemaining(bk, start.Add(61*time.Minute))
		assert.True(t, tr.Started)
		assert.Zero(t, tr.MinutesLeft)
		assert.InDelta(t, 1.0, tr.Progress, 0.001)
		assert.Equal(t, EndedLabel, tr.EndLabel)
	})

	t.Run("exactly at the end", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)

		tr := ComputeTimeRemaining(bk, start.Add(60*time.Minute))
		assert.Zero(t, tr.MinutesLeft)
		assert.InDelta(t, 1.0, tr.Progress, 0.001)
		assert.Equal(t, EndedLabel, tr.EndLabel)
	})

	t.Run("accepted extension stretches the window", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)
		require.NoError(t, bk.RequestExtension(30))
		_, _, err := bk.ResolveExtension(true)
		require.NoError(t, err)

		// 90-minute window now; at +60 half an hour remains.
		tr := ComputeTimeRemaining(bk, start.Add(60*time.Minute))
		assert.Equal(t, 30, tr.MinutesLeft)
		assert.InDelta(t, 1.0-1800.0/5400.0, tr.Progress, 0.001)
		assert.Equal(t, "15:45", tr.EndLabel)
	})

	t.Run("pending request ignored", func(t *testing.T) {
		bk := newTestBooking(t, start, 60)
		advanceTo(t, bk, StatusInProgress, start)
		require.NoError(t, bk.RequestExtension(30))

		tr := ComputeTimeRemaining(bk, start.Add(61*time.Minute))
		assert.Equal(t, EndedLabel, tr.EndLabel)
		assert.InDelta(t, 1.0, tr.Progress, 0.001)
	})
}
