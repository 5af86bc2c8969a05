package calendar

import (
	"errors"
	"strings"
	"time"

	"reservation-engine/internal/domain/user"
)

var (
	ErrEmptyReservationType = errors.New("reservation type cannot be empty")
	ErrInvalidCapacity      = errors.New("capacity must be at least 1")
	ErrEmptyServiceAlias    = errors.New("service alias cannot be empty")
	ErrSelfCollision        = errors.New("calendar cannot list itself as a collision")
)

// Calendar is a bookable resource: a named capacity slot (room, grill,
// study desk) owned by a reservation service. Its identifier is the
// external calendar id assigned by the calendar-of-record.
type Calendar struct {
	id                     string
	reservationType        string
	color                  string
	maxPeople              int
	overCapacityWithReview bool

	clubMemberRules   Rules
	activeMemberRules Rules
	managerRules      Rules

	serviceAlias string
	serviceName  string

	// Other calendar ids whose bookings block this one. The calendar's
	// own id is implied and never stored here.
	collisionIDs []string
}

func NewCalendar(
	id string,
	reservationType string,
	color string,
	maxPeople int,
	overCapacityWithReview bool,
	clubMemberRules, activeMemberRules, managerRules Rules,
	serviceAlias, serviceName string,
	collisionIDs []string,
) (*Calendar, error) {
	reservationType = strings.TrimSpace(reservationType)
	if reservationType == "" {
		return nil, ErrEmptyReservationType
	}
	if maxPeople < 1 {
		return nil, ErrInvalidCapacity
	}
	if strings.TrimSpace(serviceAlias) == "" {
		return nil, ErrEmptyServiceAlias
	}
	for _, cid := range collisionIDs {
		if cid == id {
			return nil, ErrSelfCollision
		}
	}
	if color == "" {
		color = DefaultColor
	}

	return &Calendar{
		id:                     id,
		reservationType:        reservationType,
		color:                  color,
		maxPeople:              maxPeople,
		overCapacityWithReview: overCapacityWithReview,
		clubMemberRules:        clubMemberRules,
		activeMemberRules:      activeMemberRules,
		managerRules:           managerRules,
		serviceAlias:           serviceAlias,
		serviceName:            serviceName,
		collisionIDs:           collisionIDs,
	}, nil
}

const DefaultColor = "#05baf5"

// Reconstruct rebuilds a calendar from persisted state without re-running
// creation validation.
func Reconstruct(
	id string,
	reservationType string,
	color string,
	maxPeople int,
	overCapacityWithReview bool,
	clubMemberRules, activeMemberRules, managerRules Rules,
	serviceAlias, serviceName string,
	collisionIDs []string,
) *Calendar {
	return &Calendar{
		id:                     id,
		reservationType:        reservationType,
		color:                  color,
		maxPeople:              maxPeople,
		overCapacityWithReview: overCapacityWithReview,
		clubMemberRules:        clubMemberRules,
		activeMemberRules:      activeMemberRules,
		managerRules:           managerRules,
		serviceAlias:           serviceAlias,
		serviceName:            serviceName,
		collisionIDs:           collisionIDs,
	}
}

// RulesFor selects the rule tier applicable to the given user on this
// calendar: club-member tier for non-active members, manager tier when the
// user manages the owning service, active-member tier otherwise.
func (c *Calendar) RulesFor(u *user.User) Rules {
	if !u.ActiveMember() {
		return c.clubMemberRules
	}
	if u.Manages(c.serviceAlias) {
		return c.managerRules
	}
	return c.activeMemberRules
}

// CollisionScope is the set of calendar ids whose committed bookings must
// be checked for overlap with a candidate window: the collision set plus
// the calendar itself.
func (c *Calendar) CollisionScope() []string {
	scope := make([]string, 0, len(c.collisionIDs)+1)
	scope = append(scope, c.collisionIDs...)
	return append(scope, c.id)
}

// WithinOperatingHours reports whether both edges of the window fall inside
// the standard operating hours, compared as wall-clock time in loc.
func (c *Calendar) WithinOperatingHours(start, end time.Time, openHour, closeHour int, loc *time.Location) bool {
	startMin := minuteOfDay(start.In(loc))
	endMin := minuteOfDay(end.In(loc))
	open := openHour * 60
	closeAt := closeHour * 60
	return startMin >= open && endMin >= open && endMin <= closeAt
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func (c *Calendar) ID() string                   { return c.id }
func (c *Calendar) ReservationType() string      { return c.reservationType }
func (c *Calendar) Color() string                { return c.color }
func (c *Calendar) MaxPeople() int               { return c.maxPeople }
func (c *Calendar) OverCapacityWithReview() bool { return c.overCapacityWithReview }
func (c *Calendar) ClubMemberRules() Rules       { return c.clubMemberRules }
func (c *Calendar) ActiveMemberRules() Rules     { return c.activeMemberRules }
func (c *Calendar) ManagerRules() Rules          { return c.managerRules }
func (c *Calendar) ServiceAlias() string         { return c.serviceAlias }
func (c *Calendar) ServiceName() string          { return c.serviceName }
func (c *Calendar) CollisionIDs() []string       { return c.collisionIDs }
