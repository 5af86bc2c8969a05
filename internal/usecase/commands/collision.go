package commands

import (
	"context"
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/pkg/errs"
)

// Settings are the fixed business parameters shared by the command layer:
// the wall-clock zone for collision adjacency and operating hours, and the
// standard operating-hours window itself.
type Settings struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
}

// CollisionChecker asks the calendar-of-record what is already booked
// across a calendar's collision scope and applies the domain decision
// rule. This is a read-then-act check against a store the engine does not
// own transactionally: two concurrent requests for overlapping windows can
// both pass it (no per-resource serialization; see DESIGN.md).
type CollisionChecker struct {
	external ExternalCalendar
	settings Settings
}

func NewCollisionChecker(external ExternalCalendar, settings Settings) *CollisionChecker {
	return &CollisionChecker{external: external, settings: settings}
}

// Check returns nil when the window is free, a booking rejection when it
// is taken, or ErrExternalCalendar when the calendar-of-record could not
// be consulted.
func (c *CollisionChecker) Check(ctx context.Context, cal *calendar.Calendar, window event.TimeWindow) error {
	var busy []event.BusyWindow
	for _, calendarID := range cal.CollisionScope() {
		events, err := c.external.FetchEventsInRange(ctx, calendarID, window.Start(), window.End())
		if err != nil {
			return errs.Mark(err, ErrExternalCalendar)
		}
		busy = append(busy, events...)
	}

	if event.DetectCollision(window, busy, c.settings.Location) {
		return booking.RejectCollision()
	}
	return nil
}
