package commands

import (
	"context"
	"time"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/user"

	"github.com/google/uuid"
)

// Write-side ports. Repositories speak domain entities; the external
// calendar and notification collaborators get their contracts here so the
// command layer owns what it depends on.

type EventRepository interface {
	Create(ctx context.Context, res *event.Reservation) error
	Update(ctx context.Context, res *event.Reservation) error
	FindByID(ctx context.Context, id string, includeRemoved bool) (*event.Reservation, error)
	// SoftDelete tombstones the row; the record stays retrievable with
	// includeRemoved.
	SoftDelete(ctx context.Context, id string) error
	// Restore lifts the tombstone set by SoftDelete.
	Restore(ctx context.Context, id string) error
}

type CalendarRepository interface {
	// FindByID loads the calendar together with its collision set.
	FindByID(ctx context.Context, id string, includeRemoved bool) (*calendar.Calendar, error)
	// Create persists the calendar and both directions of every requested
	// collision edge.
	Create(ctx context.Context, cal *calendar.Calendar) error
	// Update replaces the calendar's fields and rewrites its collision
	// edges symmetrically.
	Update(ctx context.Context, cal *calendar.Calendar) error
	SoftDelete(ctx context.Context, id string) error
	// Restore lifts the tombstone. Collision edges are not resurrected.
	Restore(ctx context.Context, id string) error
	// ExistingIDs filters ids down to those present (not deleted).
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ExternalEventBody is the payload mirrored to the calendar-of-record.
type ExternalEventBody struct {
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	TimeZone      string
	AttendeeEmail string
}

// ExternalEvent is a calendar-of-record entry as returned by the API.
type ExternalEvent struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// ExternalCalendar is the committed-bookings source of truth. Every call
// can fail transiently; the engine surfaces such failures as
// ErrExternalCalendar and never retries internally.
type ExternalCalendar interface {
	FetchEventsInRange(ctx context.Context, calendarID string, start, end time.Time) ([]event.BusyWindow, error)
	InsertEvent(ctx context.Context, calendarID string, body ExternalEventBody) (ExternalEvent, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (ExternalEvent, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, body ExternalEventBody) (ExternalEvent, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	CreateCalendar(ctx context.Context, summary string) (string, error)
	// CheckCalendarAccess verifies the service account can write the
	// given external calendar before it is imported.
	CheckCalendarAccess(ctx context.Context, calendarID string) error
}

// Notification is a templated email job tied to a reservation.
type Notification struct {
	Template  string
	Subject   string
	Reason    string
	EventID   string
	Recipient string
}

// Notifier enqueues notifications fire-and-forget: callers log failures
// and move on, they never fail the triggering operation.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

// EntitlementSource reports the service aliases the external information
// system grants a member.
type EntitlementSource interface {
	EntitlementsFor(ctx context.Context, username string) ([]string, error)
}

// Notification template keys, mirrored by the mailer worker.
const (
	TemplateConfirmReservation  = "confirm_reservation"
	TemplateNightTimeReview     = "not_approve_night_time_reservation"
	TemplateOverCapacityReview  = "not_approve_over_capacity_reservation"
	TemplateApproveReservation  = "approve_reservation"
	TemplateDeclineReservation  = "decline_reservation"
	TemplateCancelReservation   = "cancel_reservation"
	TemplateRequestTimeChange   = "request_update_reservation_time"
	TemplateApproveTimeChange   = "approve_update_reservation_time"
	TemplateDeclineTimeChange   = "decline_update_reservation_time"
	TemplateManagerUpdatedEvent = "update_reservation"
)
