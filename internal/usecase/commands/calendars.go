package commands

import (
	"context"
	"fmt"
	"strings"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrDanglingCollision = errs.New("collision references an unknown calendar")
	ErrInvalidCalendar   = errs.New("invalid calendar definition")
)

type CalendarCommand struct {
	// ID is the external calendar id. Empty on create means a fresh
	// external calendar is provisioned; otherwise write access to the
	// existing one is verified before import.
	ID                     string
	ReservationType        string
	Color                  string
	MaxPeople              int
	OverCapacityWithReview bool
	ClubMemberRules        calendar.Rules
	ActiveMemberRules      calendar.Rules
	ManagerRules           calendar.Rules
	ServiceAlias           string
	ServiceName            string
	CollisionIDs           []string
}

type CalendarCommands interface {
	CreateCalendar(ctx context.Context, userID uuid.UUID, cmd CalendarCommand) (*calendar.Calendar, error)
	UpdateCalendar(ctx context.Context, id string, userID uuid.UUID, cmd CalendarCommand) (*calendar.Calendar, error)
	DeleteCalendar(ctx context.Context, id string, userID uuid.UUID) error
	// RestoreCalendar lifts the tombstone on a deleted calendar. Its
	// collision edges are gone for good; an update must re-declare them.
	RestoreCalendar(ctx context.Context, id string, userID uuid.UUID) (*calendar.Calendar, error)
}

type calendarCommandsImpl struct {
	calendars CalendarRepository
	users     UserRepository
	external  ExternalCalendar
}

func NewCalendarCommands(calendars CalendarRepository, users UserRepository, external ExternalCalendar) CalendarCommands {
	return &calendarCommandsImpl{calendars: calendars, users: users, external: external}
}

func (c *calendarCommandsImpl) CreateCalendar(ctx context.Context, userID uuid.UUID, cmd CalendarCommand) (*calendar.Calendar, error) {
	if err := c.requireAdmin(ctx, userID, cmd.ServiceAlias); err != nil {
		return nil, err
	}

	id := cmd.ID
	if id == "" {
		created, err := c.external.CreateCalendar(ctx, cmd.ReservationType)
		if err != nil {
			return nil, errs.Mark(err, ErrExternalCalendar)
		}
		id = created
	} else {
		if err := c.external.CheckCalendarAccess(ctx, id); err != nil {
			return nil, errs.Mark(err, ErrExternalCalendar)
		}
	}

	if err := c.checkCollisionTargets(ctx, id, cmd.CollisionIDs); err != nil {
		return nil, err
	}

	cal, err := buildCalendar(id, cmd)
	if err != nil {
		return nil, err
	}

	if err := c.calendars.Create(ctx, cal); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return cal, nil
}

func (c *calendarCommandsImpl) UpdateCalendar(ctx context.Context, id string, userID uuid.UUID, cmd CalendarCommand) (*calendar.Calendar, error) {
	if err := c.requireAdmin(ctx, userID, cmd.ServiceAlias); err != nil {
		return nil, err
	}

	if _, err := c.calendars.FindByID(ctx, id, false); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	if err := c.checkCollisionTargets(ctx, id, cmd.CollisionIDs); err != nil {
		return nil, err
	}

	cal, err := buildCalendar(id, cmd)
	if err != nil {
		return nil, err
	}

	if err := c.calendars.Update(ctx, cal); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return cal, nil
}

func (c *calendarCommandsImpl) DeleteCalendar(ctx context.Context, id string, userID uuid.UUID) error {
	cal, err := c.calendars.FindByID(ctx, id, false)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCalendarNotFound
		}
		return errs.Mark(err, ErrDatabaseOperation)
	}
	if err := c.requireAdmin(ctx, userID, cal.ServiceAlias()); err != nil {
		return err
	}
	// The repository drops both directions of every edge touching this
	// calendar so no dangling references survive.
	if err := c.calendars.SoftDelete(ctx, id); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}
	return nil
}

func (c *calendarCommandsImpl) RestoreCalendar(ctx context.Context, id string, userID uuid.UUID) (*calendar.Calendar, error) {
	cal, err := c.calendars.FindByID(ctx, id, true)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if err := c.requireAdmin(ctx, userID, cal.ServiceAlias()); err != nil {
		return nil, err
	}
	if err := c.calendars.Restore(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrap(ErrInvalidCalendar, "calendar is not deleted")
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return cal, nil
}

// requireAdmin allows section heads and the owning service's manager.
func (c *calendarCommandsImpl) requireAdmin(ctx context.Context, userID uuid.UUID, serviceAlias string) error {
	u, err := c.users.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrUserNotFound
		}
		return errs.Mark(err, ErrDatabaseOperation)
	}
	if !u.SectionHead() && !u.Manages(serviceAlias) {
		return errs.Wrap(ErrPermissionDenied, "calendar administration requires a manager or section head role")
	}
	return nil
}

// checkCollisionTargets rejects edges toward calendars that do not exist.
// A dangling edge would make every subsequent collision check on this
// calendar fail at the external fetch, so it is refused up front.
func (c *calendarCommandsImpl) checkCollisionTargets(ctx context.Context, selfID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	existing, err := c.calendars.ExistingIDs(ctx, ids)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}
	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if id == selfID {
			continue
		}
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return errs.Mark(
			fmt.Errorf("unknown collision calendar ids: %s", strings.Join(missing, ", ")),
			ErrDanglingCollision,
		)
	}
	return nil
}

func buildCalendar(id string, cmd CalendarCommand) (*calendar.Calendar, error) {
	cal, err := calendar.NewCalendar(
		id,
		cmd.ReservationType,
		cmd.Color,
		cmd.MaxPeople,
		cmd.OverCapacityWithReview,
		cmd.ClubMemberRules,
		cmd.ActiveMemberRules,
		cmd.ManagerRules,
		cmd.ServiceAlias,
		cmd.ServiceName,
		cmd.CollisionIDs,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCalendar)
	}
	return cal, nil
}
