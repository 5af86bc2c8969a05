package response

import (
	"time"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type RulesResponse struct {
	NightTime                    bool `json:"night_time"`
	ReservationWithoutPermission bool `json:"reservation_without_permission"`
	MaxReservationHours          uint `json:"max_reservation_hours"`
	InAdvanceHours               uint `json:"in_advance_hours"`
	InAdvanceMinutes             uint `json:"in_advance_minutes"`
	InPriorDays                  uint `json:"in_prior_days"`
}

type CalendarResponse struct {
	ID                     string        `json:"id"`
	ReservationType        string        `json:"reservation_type"`
	Color                  string        `json:"color"`
	MaxPeople              int           `json:"max_people"`
	OverCapacityWithReview bool          `json:"over_capacity_with_review"`
	ClubMemberRules        RulesResponse `json:"club_member_rules"`
	ActiveMemberRules      RulesResponse `json:"active_member_rules"`
	ManagerRules           RulesResponse `json:"manager_rules"`
	ServiceAlias           string        `json:"service_alias"`
	ServiceName            string        `json:"service_name"`
	CollisionIDs           []string      `json:"collision_ids"`
	CreatedAt              time.Time     `json:"created_at,omitempty"`
	UpdatedAt              time.Time     `json:"updated_at,omitempty"`
}

func FromCalendarView(view *queries.CalendarView) *CalendarResponse {
	var resp CalendarResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromCalendarViews(views []*queries.CalendarView) []*CalendarResponse {
	resps := make([]*CalendarResponse, 0, len(views))
	for _, view := range views {
		resps = append(resps, FromCalendarView(view))
	}
	return resps
}

// FromCalendar builds the response from the entity on the write paths.
func FromCalendar(cal *calendar.Calendar) *CalendarResponse {
	return &CalendarResponse{
		ID:                     cal.ID(),
		ReservationType:        cal.ReservationType(),
		Color:                  cal.Color(),
		MaxPeople:              cal.MaxPeople(),
		OverCapacityWithReview: cal.OverCapacityWithReview(),
		ClubMemberRules:        rulesResponse(cal.ClubMemberRules()),
		ActiveMemberRules:      rulesResponse(cal.ActiveMemberRules()),
		ManagerRules:           rulesResponse(cal.ManagerRules()),
		ServiceAlias:           cal.ServiceAlias(),
		ServiceName:            cal.ServiceName(),
		CollisionIDs:           cal.CollisionIDs(),
	}
}

func rulesResponse(r calendar.Rules) RulesResponse {
	var resp RulesResponse
	_ = copier.Copy(&resp, &r)
	return resp
}
