//go:build unit || e2e

package builder

import (
	"reservation-engine/internal/domain/calendar"
)

type CalendarBuilder struct {
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

func NewCalendarBuilder() *CalendarBuilder {
	return &CalendarBuilder{
		ID:                     "grill-calendar@example.org",
		ReservationType:        "Grill",
		Color:                  "#05baf5",
		MaxPeople:              8,
		OverCapacityWithReview: true,
		ClubMemberRules: calendar.Rules{
			MaxReservationHours: 3,
			InAdvanceHours:      24,
			InPriorDays:         7,
		},
		ActiveMemberRules: calendar.Rules{
			MaxReservationHours: 6,
			InAdvanceHours:      1,
			InAdvanceMinutes:    30,
			InPriorDays:         30,
		},
		ManagerRules: calendar.Rules{
			MaxReservationHours: 24,
			InPriorDays:         365,
		},
		ServiceAlias: "grill",
		ServiceName:  "Grill Centre",
	}
}

func (c *CalendarBuilder) With(mutate func(*CalendarBuilder)) *CalendarBuilder {
	mutate(c)
	return c
}

func (c *CalendarBuilder) WithCollisions(ids ...string) *CalendarBuilder {
	c.CollisionIDs = ids
	return c
}

func (c *CalendarBuilder) BuildDomain() (*calendar.Calendar, error) {
	return calendar.NewCalendar(
		c.ID,
		c.ReservationType,
		c.Color,
		c.MaxPeople,
		c.OverCapacityWithReview,
		c.ClubMemberRules,
		c.ActiveMemberRules,
		c.ManagerRules,
		c.ServiceAlias,
		c.ServiceName,
		c.CollisionIDs,
	)
}
