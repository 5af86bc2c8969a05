package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound     = errs.New("event not found")
	ErrCalendarNotFound  = errs.New("calendar not found")
	ErrUserNotFound      = errs.New("user not found")
	ErrPermissionDenied  = errs.New("permission denied")
	ErrInvalidTransition = errs.New("invalid lifecycle transition")
	ErrExternalCalendar  = errs.New("external calendar failure")
	ErrEntitlementSource = errs.New("entitlement lookup failure")
	ErrDatabaseOperation = errs.New("database operation failed")
)

type CreateEventCommand struct {
	CalendarID string
	Start      time.Time
	End        time.Time
	Purpose    string
	Guests     int
	Email      string
	Extras     []string
}

type UpdateEventCommand struct {
	Start   *time.Time
	End     *time.Time
	Purpose *string
	Guests  *int
	Email   *string
	Reason  string
}

type CreateEventResult struct {
	Reservation     *event.Reservation
	ReservationType string
	// RequiresReview is set when the booking was parked in the
	// not-approved state for a manager decision; ReviewReason then holds
	// the summary written to the external calendar.
	RequiresReview bool
	ReviewReason   string
}

type EventCommands interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, cmd CreateEventCommand) (*CreateEventResult, error)
	// ResolveApproval confirms (approve) or cancels (decline) a
	// not-approved reservation. Manager only.
	ResolveApproval(ctx context.Context, id string, userID uuid.UUID, approve bool, managerNotes string) (*event.Reservation, error)
	CancelEvent(ctx context.Context, id string, userID uuid.UUID, reason string) (*event.Reservation, error)
	// HardDeleteEvent tombstones a canceled reservation. Manager only.
	HardDeleteEvent(ctx context.Context, id string, userID uuid.UUID) error
	// RestoreEvent lifts a tombstone set by HardDeleteEvent. The
	// reservation comes back in the canceled state. Manager only.
	RestoreEvent(ctx context.Context, id string, userID uuid.UUID) (*event.Reservation, error)
	RequestTimeChange(ctx context.Context, id string, userID uuid.UUID, start, end time.Time, reason string) (*event.Reservation, error)
	// ResolveTimeChange approves or declines a pending time change.
	// Manager only.
	ResolveTimeChange(ctx context.Context, id string, userID uuid.UUID, approve bool, managerNotes string) (*event.Reservation, error)
	// UpdateEvent is the manager edit path: details and committed window
	// changed directly, mirrored to the external calendar.
	UpdateEvent(ctx context.Context, id string, userID uuid.UUID, cmd UpdateEventCommand) (*event.Reservation, error)
}

type eventCommandsImpl struct {
	events       EventRepository
	calendars    CalendarRepository
	users        UserRepository
	external     ExternalCalendar
	notifier     Notifier
	entitlements EntitlementSource
	validator    *booking.Validator
	collisions   *CollisionChecker
	settings     Settings
	clock        clock.Clock
}

func NewEventCommands(
	events EventRepository,
	calendars CalendarRepository,
	users UserRepository,
	external ExternalCalendar,
	notifier Notifier,
	entitlements EntitlementSource,
	validator *booking.Validator,
	collisions *CollisionChecker,
	settings Settings,
	clock clock.Clock,
) EventCommands {
	return &eventCommandsImpl{
		events:       events,
		calendars:    calendars,
		users:        users,
		external:     external,
		notifier:     notifier,
		entitlements: entitlements,
		validator:    validator,
		collisions:   collisions,
		settings:     settings,
		clock:        clock,
	}
}

func (c *eventCommandsImpl) CreateEvent(ctx context.Context, userID uuid.UUID, cmd CreateEventCommand) (*CreateEventResult, error) {
	u, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cal, err := c.loadCalendar(ctx, cmd.CalendarID)
	if err != nil {
		return nil, err
	}

	entitlements, err := c.entitlements.EntitlementsFor(ctx, u.Username())
	if err != nil {
		return nil, errs.Mark(err, ErrEntitlementSource)
	}

	req := booking.Request{
		Window:       booking.TimeRange{Start: cmd.Start, End: cmd.End},
		Guests:       cmd.Guests,
		Entitlements: entitlements,
	}
	if _, err := c.validator.Validate(req, cal, u); err != nil {
		return nil, err
	}

	window, err := event.NewTimeWindow(cmd.Start, cmd.End)
	if err != nil {
		return nil, booking.Reject(booking.CodeEndBefore, "The end of a reservation cannot be before its beginning!")
	}

	if err := c.collisions.Check(ctx, cal, window); err != nil {
		return nil, err
	}

	state := event.StateConfirmed
	template := TemplateConfirmReservation
	subject := fmt.Sprintf("%s Reservation Confirmation", cal.ServiceName())
	summary := cal.ReservationType()
	switch {
	case cmd.Guests > cal.MaxPeople():
		// Only reachable when the calendar routes over-capacity requests
		// to review; the pipeline hard-rejects otherwise.
		state = event.StateNotApproved
		summary = fmt.Sprintf("Not approved - more than %d people", cal.MaxPeople())
		template = TemplateOverCapacityReview
		subject = summary
	case !u.ActiveMember() && !cal.WithinOperatingHours(cmd.Start, cmd.End, c.settings.OpenHour, c.settings.CloseHour, c.settings.Location):
		state = event.StateNotApproved
		summary = "Not approved - night time"
		template = TemplateNightTimeReview
		subject = summary
	}

	body := ExternalEventBody{
		Summary:       summary,
		Description:   describeEvent(u, cmd.Guests, cmd.Purpose, cmd.Extras),
		Start:         cmd.Start,
		End:           cmd.End,
		TimeZone:      c.settings.Location.String(),
		AttendeeEmail: cmd.Email,
	}
	ext, err := c.external.InsertEvent(ctx, cal.ID(), body)
	if err != nil {
		return nil, errs.Mark(err, ErrExternalCalendar)
	}

	res := event.NewReservation(ext.ID, cal.ID(), u.ID(), window, state, cmd.Purpose, cmd.Guests, cmd.Email, cmd.Extras)
	if err := c.events.Create(ctx, res); err != nil {
		// The external mirror already exists; there is no compensating
		// delete. Logged and surfaced, see §7 of DESIGN.md.
		slog.Error("local create failed after external calendar insert",
			"event_id", ext.ID, "calendar_id", cal.ID(), "error", err)
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	c.notify(ctx, Notification{
		Template:  template,
		Subject:   subject,
		EventID:   res.ID(),
		Recipient: cmd.Email,
	})

	return &CreateEventResult{
		Reservation:     res,
		ReservationType: cal.ReservationType(),
		RequiresReview:  state == event.StateNotApproved,
		ReviewReason:    summary,
	}, nil
}

func (c *eventCommandsImpl) ResolveApproval(ctx context.Context, id string, userID uuid.UUID, approve bool, managerNotes string) (*event.Reservation, error) {
	res, cal, u, err := c.loadForTransition(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !u.Manages(cal.ServiceAlias()) {
		return nil, errs.Wrap(ErrPermissionDenied,
			fmt.Sprintf("you must be the %s manager to approve this reservation", cal.ServiceName()))
	}

	if !approve {
		return c.cancelAndMirror(ctx, res, TemplateDeclineReservation, "Reservation Has Been Declined", managerNotes)
	}

	if err := res.Confirm(); err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	if err := c.events.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	// Rewrite the mirrored summary back to the plain reservation type now
	// that the booking is approved.
	ext, err := c.external.GetEvent(ctx, res.CalendarID(), res.ID())
	if err != nil {
		return res, c.reportExternal(res.ID(), "fetch for summary rewrite", err)
	}
	body := externalBodyFrom(ext, c.settings.Location)
	body.Summary = cal.ReservationType()
	if _, err := c.external.UpdateEvent(ctx, res.CalendarID(), res.ID(), body); err != nil {
		return res, c.reportExternal(res.ID(), "summary rewrite", err)
	}

	c.notify(ctx, Notification{
		Template:  TemplateApproveReservation,
		Subject:   "Reservation Has Been Approved",
		Reason:    managerNotes,
		EventID:   res.ID(),
		Recipient: res.Email(),
	})
	return res, nil
}

func (c *eventCommandsImpl) CancelEvent(ctx context.Context, id string, userID uuid.UUID, reason string) (*event.Reservation, error) {
	res, cal, u, err := c.loadForTransition(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(u.ID()) && !u.Manages(cal.ServiceAlias()) {
		return nil, errs.Wrap(ErrPermissionDenied,
			"you do not have permission to cancel a reservation made by another user")
	}
	return c.cancelAndMirror(ctx, res, TemplateCancelReservation, "Reservation Has Been Canceled", reason)
}

func (c *eventCommandsImpl) HardDeleteEvent(ctx context.Context, id string, userID uuid.UUID) error {
	res, err := c.loadEvent(ctx, id, true)
	if err != nil {
		return err
	}
	cal, err := c.loadCalendarAny(ctx, res.CalendarID())
	if err != nil {
		return err
	}
	u, err := c.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := res.CanHardDelete(); err != nil {
		return errs.Mark(err, ErrInvalidTransition)
	}
	if !u.Manages(cal.ServiceAlias()) {
		return errs.Wrap(ErrPermissionDenied,
			fmt.Sprintf("you must be the %s manager to delete this reservation", cal.ServiceName()))
	}

	if err := c.events.SoftDelete(ctx, id); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}
	return nil
}

func (c *eventCommandsImpl) RestoreEvent(ctx context.Context, id string, userID uuid.UUID) (*event.Reservation, error) {
	res, err := c.loadEvent(ctx, id, true)
	if err != nil {
		return nil, err
	}
	cal, err := c.loadCalendarAny(ctx, res.CalendarID())
	if err != nil {
		return nil, err
	}
	u, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Manages(cal.ServiceAlias()) {
		return nil, errs.Wrap(ErrPermissionDenied,
			fmt.Sprintf("you must be the %s manager to restore this reservation", cal.ServiceName()))
	}

	if err := c.events.Restore(ctx, id); err != nil {
		// Zero rows touched means the reservation was never removed.
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrap(ErrInvalidTransition, "reservation is not removed")
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return res, nil
}

func (c *eventCommandsImpl) RequestTimeChange(ctx context.Context, id string, userID uuid.UUID, start, end time.Time, reason string) (*event.Reservation, error) {
	res, err := c.loadEvent(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(userID) {
		return nil, errs.Wrap(ErrPermissionDenied,
			"you do not have permission to request changing a reservation made by another user")
	}

	proposed, err := event.NewTimeWindow(start, end)
	if err != nil {
		return nil, booking.Reject(booking.CodeEndBefore, "The end of a reservation cannot be before its beginning!")
	}

	if err := res.RequestTimeChange(proposed, c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	if err := c.events.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	c.notify(ctx, Notification{
		Template:  TemplateRequestTimeChange,
		Subject:   "Request Update Reservation Time",
		Reason:    reason,
		EventID:   res.ID(),
		Recipient: res.Email(),
	})
	return res, nil
}

func (c *eventCommandsImpl) ResolveTimeChange(ctx context.Context, id string, userID uuid.UUID, approve bool, managerNotes string) (*event.Reservation, error) {
	res, cal, u, err := c.loadForTransition(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if res.IsCanceled() {
		return nil, errs.Mark(event.ErrAlreadyCanceled, ErrInvalidTransition)
	}
	if !u.Manages(cal.ServiceAlias()) {
		return nil, errs.Wrap(ErrPermissionDenied,
			fmt.Sprintf("you must be the %s manager to update this reservation", cal.ServiceName()))
	}

	if !approve {
		if err := res.DeclineTimeChange(); err != nil {
			return nil, errs.Mark(err, ErrInvalidTransition)
		}
		if err := c.events.Update(ctx, res); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperation)
		}
		c.notify(ctx, Notification{
			Template:  TemplateDeclineTimeChange,
			Subject:   "Request Update Reservation Time Has Been Declined",
			Reason:    managerNotes,
			EventID:   res.ID(),
			Recipient: res.Email(),
		})
		return res, nil
	}

	window, err := res.ApproveTimeChange()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	if err := c.events.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	ext, err := c.external.GetEvent(ctx, res.CalendarID(), res.ID())
	if err != nil {
		return res, c.reportExternal(res.ID(), "fetch for time update", err)
	}
	body := externalBodyFrom(ext, c.settings.Location)
	body.Start = window.Start()
	body.End = window.End()
	if _, err := c.external.UpdateEvent(ctx, res.CalendarID(), res.ID(), body); err != nil {
		return res, c.reportExternal(res.ID(), "time update", err)
	}

	c.notify(ctx, Notification{
		Template:  TemplateApproveTimeChange,
		Subject:   "Request Update Reservation Time Has Been Approved",
		Reason:    managerNotes,
		EventID:   res.ID(),
		Recipient: res.Email(),
	})
	return res, nil
}

func (c *eventCommandsImpl) UpdateEvent(ctx context.Context, id string, userID uuid.UUID, cmd UpdateEventCommand) (*event.Reservation, error) {
	res, cal, u, err := c.loadForTransition(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !u.Manages(cal.ServiceAlias()) {
		return nil, errs.Wrap(ErrPermissionDenied,
			fmt.Sprintf("you must be the %s manager to update this event", cal.ServiceName()))
	}

	start := res.Window().Start()
	end := res.Window().End()
	if cmd.Start != nil {
		start = *cmd.Start
	}
	if cmd.End != nil {
		end = *cmd.End
	}
	if start.Before(c.clock.Now()) {
		return nil, booking.Reject(booking.CodePastStart,
			"You can't change a reservation start time before the present time!")
	}
	window, err := event.NewTimeWindow(start, end)
	if err != nil {
		return nil, booking.Reject(booking.CodeEndBefore, "The end of a reservation cannot be before its beginning!")
	}

	if err := res.Reschedule(window); err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	res.UpdateDetails(cmd.Purpose, cmd.Guests, cmd.Email)

	if err := c.events.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	ext, err := c.external.GetEvent(ctx, res.CalendarID(), res.ID())
	if err != nil {
		return res, c.reportExternal(res.ID(), "fetch for manager update", err)
	}
	body := externalBodyFrom(ext, c.settings.Location)
	body.Start = window.Start()
	body.End = window.End()
	body.Description = describeEvent(u, res.Guests(), res.Purpose(), res.Extras())
	if _, err := c.external.UpdateEvent(ctx, res.CalendarID(), res.ID(), body); err != nil {
		return res, c.reportExternal(res.ID(), "manager update", err)
	}

	c.notify(ctx, Notification{
		Template:  TemplateManagerUpdatedEvent,
		Subject:   "Update Reservation By Manager",
		Reason:    cmd.Reason,
		EventID:   res.ID(),
		Recipient: res.Email(),
	})
	return res, nil
}

func (c *eventCommandsImpl) cancelAndMirror(ctx context.Context, res *event.Reservation, template, subject, reason string) (*event.Reservation, error) {
	if err := res.Cancel(c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidTransition)
	}
	if err := c.events.Update(ctx, res); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	if err := c.external.DeleteEvent(ctx, res.CalendarID(), res.ID()); err != nil {
		return res, c.reportExternal(res.ID(), "delete", err)
	}

	c.notify(ctx, Notification{
		Template:  template,
		Subject:   subject,
		Reason:    reason,
		EventID:   res.ID(),
		Recipient: res.Email(),
	})
	return res, nil
}

func (c *eventCommandsImpl) loadForTransition(ctx context.Context, id string, userID uuid.UUID) (*event.Reservation, *calendar.Calendar, *user.User, error) {
	res, err := c.loadEvent(ctx, id, false)
	if err != nil {
		return nil, nil, nil, err
	}
	cal, err := c.loadCalendarAny(ctx, res.CalendarID())
	if err != nil {
		return nil, nil, nil, err
	}
	u, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return res, cal, u, nil
}

func (c *eventCommandsImpl) loadEvent(ctx context.Context, id string, includeRemoved bool) (*event.Reservation, error) {
	res, err := c.events.FindByID(ctx, id, includeRemoved)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return res, nil
}

func (c *eventCommandsImpl) loadCalendar(ctx context.Context, id string) (*calendar.Calendar, error) {
	cal, err := c.calendars.FindByID(ctx, id, false)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return cal, nil
}

// loadCalendarAny also resolves removed calendars so transitions on events
// of a retired calendar keep working.
func (c *eventCommandsImpl) loadCalendarAny(ctx context.Context, id string) (*calendar.Calendar, error) {
	cal, err := c.calendars.FindByID(ctx, id, true)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return cal, nil
}

func (c *eventCommandsImpl) loadUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := c.users.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return u, nil
}

// reportExternal logs an external-calendar failure that happened after the
// local record was already committed. The local state is not reverted; the
// inconsistency is surfaced to the caller as an external-system error.
func (c *eventCommandsImpl) reportExternal(eventID, op string, err error) error {
	slog.Error("external calendar mutation failed after local commit",
		"event_id", eventID, "operation", op, "error", err)
	return errs.Mark(err, ErrExternalCalendar)
}

func (c *eventCommandsImpl) notify(ctx context.Context, n Notification) {
	if err := c.notifier.Publish(ctx, n); err != nil {
		slog.Warn("failed to enqueue notification",
			"template", n.Template, "event_id", n.EventID, "error", err)
	}
}

func describeEvent(u *user.User, guests int, purpose string, extras []string) string {
	formatted := "-"
	if len(extras) > 0 {
		formatted = strings.Join(extras, ", ")
	}
	return fmt.Sprintf("Name: %s\nParticipants: %d\nPurpose: %s\n\nAdditionals: %s\n",
		u.FullName(), guests, purpose, formatted)
}

func externalBodyFrom(ext ExternalEvent, loc *time.Location) ExternalEventBody {
	return ExternalEventBody{
		Summary:     ext.Summary,
		Description: ext.Description,
		Start:       ext.Start,
		End:         ext.End,
		TimeZone:    loc.String(),
	}
}
