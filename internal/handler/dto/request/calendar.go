package request

import (
	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/usecase/commands"
)

type RulesRequest struct {
	NightTime                    bool `json:"night_time"`
	ReservationWithoutPermission bool `json:"reservation_without_permission"`
	MaxReservationHours          uint `json:"max_reservation_hours"`
	InAdvanceHours               uint `json:"in_advance_hours"`
	InAdvanceMinutes             uint `json:"in_advance_minutes"`
	InPriorDays                  uint `json:"in_prior_days"`
}

func (r RulesRequest) ToDomain() calendar.Rules {
	return calendar.Rules{
		NightTime:                    r.NightTime,
		ReservationWithoutPermission: r.ReservationWithoutPermission,
		MaxReservationHours:          r.MaxReservationHours,
		InAdvanceHours:               r.InAdvanceHours,
		InAdvanceMinutes:             r.InAdvanceMinutes,
		InPriorDays:                  r.InPriorDays,
	}
}

type CalendarRequest struct {
	ID                     string       `json:"id,omitempty"`
	ReservationType        string       `json:"reservation_type" binding:"required"`
	Color                  string       `json:"color,omitempty"`
	MaxPeople              int          `json:"max_people" binding:"required,min=1"`
	OverCapacityWithReview bool         `json:"over_capacity_with_review"`
	ClubMemberRules        RulesRequest `json:"club_member_rules"`
	ActiveMemberRules      RulesRequest `json:"active_member_rules"`
	ManagerRules           RulesRequest `json:"manager_rules"`
	ServiceAlias           string       `json:"service_alias" binding:"required"`
	ServiceName            string       `json:"service_name" binding:"required"`
	CollisionIDs           []string     `json:"collision_ids,omitempty"`
}

func (r CalendarRequest) ToCommand() commands.CalendarCommand {
	return commands.CalendarCommand{
		ID:                     r.ID,
		ReservationType:        r.ReservationType,
		Color:                  r.Color,
		MaxPeople:              r.MaxPeople,
		OverCapacityWithReview: r.OverCapacityWithReview,
		ClubMemberRules:        r.ClubMemberRules.ToDomain(),
		ActiveMemberRules:      r.ActiveMemberRules.ToDomain(),
		ManagerRules:           r.ManagerRules.ToDomain(),
		ServiceAlias:           r.ServiceAlias,
		ServiceName:            r.ServiceName,
		CollisionIDs:           r.CollisionIDs,
	}
}
