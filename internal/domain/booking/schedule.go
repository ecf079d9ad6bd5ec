package booking

import "time"

// EndedLabel is the end-time label reported once the service window elapsed.
const EndedLabel = "ended"

// TimeRemaining describes how far an in-progress booking has run. It is what
// both parties' polling views render.
type TimeRemaining struct {
	// Started is false until the sitter has checked in.
	Started bool `json:"started"`
	// MinutesLeft is the whole minutes until the end time, 0 once elapsed.
	MinutesLeft int `json:"minutes_left"`
	// Progress is the elapsed fraction of the total duration, in [0, 1].
	Progress float64 `json:"progress"`
	// EndLabel is the end time formatted as "15:04", or EndedLabel once
	// the window elapsed.
	EndLabel string `json:"end_label"`
}

// ComputeTimeRemaining derives the live countdown for a booking at the given
// instant. Before check-in it reports the not-started result: the full
// duration ahead, zero progress, and the end time projected from the
// scheduled start. Pending extension requests are ignored; only accepted
// extensions move the end time.
func ComputeTimeRemaining(b *Booking, now time.Time) TimeRemaining {
	end := b.EndTime()
	totalMinutes := b.DurationMinutes() + b.ExtensionMinutes()

	if b.CheckInTime() == nil {
		return TimeRemaining{
			Started:     false,
			MinutesLeft: totalMinutes,
			Progress:    0,
			EndLabel:    end.Format("15:04"),
		}
	}

	secondsLeft := end.Sub(now).Seconds()
	if secondsLeft <= 0 {
		return TimeRemaining{
			Started:     true,
			MinutesLeft: 0,
			Progress:    1.0,
			EndLabel:    EndedLabel,
		}
	}

	totalSeconds := float64(totalMinutes) * 60
	progress := 1 - secondsLeft/totalSeconds
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return TimeRemaining{
		Started:     true,
		MinutesLeft: int(secondsLeft / 60),
		Progress:    progress,
		EndLabel:    end.Format("15:04"),
	}
}
