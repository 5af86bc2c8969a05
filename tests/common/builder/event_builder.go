//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/event"

	"github.com/google/uuid"
)

type EventBuilder struct {
	ID         string
	CalendarID string
	UserID     uuid.UUID
	Start      time.Time
	End        time.Time
	State      event.State
	Purpose    string
	Guests     int
	Email      string
	Extras     []string
}

func NewEventBuilder() *EventBuilder {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	return &EventBuilder{
		ID:         "evt-0001",
		CalendarID: "grill-calendar@example.org",
		UserID:     uuid.New(),
		Start:      start,
		End:        start.Add(2 * time.Hour),
		State:      event.StateConfirmed,
		Purpose:    "birthday party",
		Guests:     4,
		Email:      "jnovak@example.com",
	}
}

func (e *EventBuilder) With(mutate func(*EventBuilder)) *EventBuilder {
	mutate(e)
	return e
}

func (e *EventBuilder) WithState(state event.State) *EventBuilder {
	e.State = state
	return e
}

func (e *EventBuilder) WithWindow(start, end time.Time) *EventBuilder {
	e.Start = start
	e.End = end
	return e
}

func (e *EventBuilder) BuildDomain() (*event.Reservation, error) {
	window, err := event.NewTimeWindow(e.Start, e.End)
	if err != nil {
		return nil, err
	}
	return event.NewReservation(
		e.ID, e.CalendarID, e.UserID, window, e.State,
		e.Purpose, e.Guests, e.Email, e.Extras,
	), nil
}
