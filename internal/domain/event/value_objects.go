package event

import (
	"errors"
	"time"
)

var ErrInvalidTimeWindow = errors.New("window end cannot be before its start")

// TimeWindow is a half-open [start, end) booking window.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if end.Before(start) {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time        { return w.start }
func (w TimeWindow) End() time.Time          { return w.end }
func (w TimeWindow) Duration() time.Duration { return w.end.Sub(w.start) }

func (w TimeWindow) HasStarted(now time.Time) bool {
	return !now.Before(w.start)
}

func (w TimeWindow) HasEnded(now time.Time) bool {
	return w.end.Before(now)
}

// Overlaps reports whether the two half-open windows share any instant.
// Touching edges do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// AdjacentTo reports whether other ends exactly when w starts or starts
// exactly when w ends, compared in loc.
func (w TimeWindow) AdjacentTo(other TimeWindow, loc *time.Location) bool {
	return other.end.In(loc).Equal(w.start.In(loc)) || other.start.In(loc).Equal(w.end.In(loc))
}

// BusyWindow is a committed booking fetched from the external
// calendar-of-record during collision detection.
type BusyWindow struct {
	CalendarID string
	Window     TimeWindow
}

// DetectCollision decides whether a candidate window is free given every
// externally-recorded booking that intersects it across the collision
// scope. An empty list is free; two or more bookings always collide;
// a single booking is tolerated only when it is exactly back-to-back with
// the candidate (room turnover), never when it truly overlaps.
func DetectCollision(candidate TimeWindow, busy []BusyWindow, loc *time.Location) bool {
	switch {
	case len(busy) == 0:
		return false
	case len(busy) > 1:
		return true
	default:
		return !candidate.AdjacentTo(busy[0].Window, loc)
	}
}

// PendingChange is an outstanding time-change proposal on a reservation.
type PendingChange struct {
	window TimeWindow
}

func NewPendingChange(window TimeWindow) PendingChange {
	return PendingChange{window: window}
}

func (p PendingChange) Window() TimeWindow { return p.window }
