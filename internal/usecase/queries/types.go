package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type EventView struct {
	ID              string     `json:"id"`
	CalendarID      string     `json:"calendar_id"`
	ReservationType string     `json:"reservation_type"`
	UserID          uuid.UUID  `json:"user_id"`
	UserFullName    string     `json:"user_full_name"`
	Start           time.Time  `json:"reservation_start"`
	End             time.Time  `json:"reservation_end"`
	RequestedStart  *time.Time `json:"requested_reservation_start,omitempty"`
	RequestedEnd    *time.Time `json:"requested_reservation_end,omitempty"`
	State           string     `json:"event_state"`
	Purpose         string     `json:"purpose"`
	Guests          int        `json:"guests"`
	Email           string     `json:"email"`
	Extras          []string   `json:"additional_services,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CalendarView struct {
	ID                     string    `json:"id"`
	ReservationType        string    `json:"reservation_type"`
	Color                  string    `json:"color"`
	MaxPeople              int       `json:"max_people"`
	OverCapacityWithReview bool      `json:"over_capacity_with_review"`
	ClubMemberRules        RulesView `json:"club_member_rules"`
	ActiveMemberRules      RulesView `json:"active_member_rules"`
	ManagerRules           RulesView `json:"manager_rules"`
	ServiceAlias           string    `json:"service_alias"`
	ServiceName            string    `json:"service_name"`
	CollisionIDs           []string  `json:"collision_ids"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type RulesView struct {
	NightTime                    bool `json:"night_time"`
	ReservationWithoutPermission bool `json:"reservation_without_permission"`
	MaxReservationHours          uint `json:"max_reservation_hours"`
	InAdvanceHours               uint `json:"in_advance_hours"`
	InAdvanceMinutes             uint `json:"in_advance_minutes"`
	InPriorDays                  uint `json:"in_prior_days"`
}

type AuthorizedUserView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	ActiveMember bool      `json:"active_member"`
	SectionHead  bool      `json:"section_head"`
	Roles        []string  `json:"roles"`
}

// EventFilter narrows event listings. Nil fields match everything.
type EventFilter struct {
	State *string
	// Past selects events strictly in the past (true) or not yet ended
	// (false); nil applies no time filtering.
	Past *bool
}
