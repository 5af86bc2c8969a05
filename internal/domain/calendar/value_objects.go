package calendar

import "time"

// Rules is one tier's booking parameters. A calendar carries three
// instances (club member, active member, manager); they are replaced as a
// whole on calendar update, never mutated in place.
//
// NightTime and ReservationWithoutPermission are retained from legacy
// configuration. Neither participates in the approval path: night-time
// routing at creation is decided from the user's active-member flag.
type Rules struct {
	NightTime                    bool `json:"night_time"`
	ReservationWithoutPermission bool `json:"reservation_without_permission"`
	MaxReservationHours          uint `json:"max_reservation_hours"`
	InAdvanceHours               uint `json:"in_advance_hours"`
	InAdvanceMinutes             uint `json:"in_advance_minutes"`
	InPriorDays                  uint `json:"in_prior_days"`
}

// MaxDuration is the longest window this tier may book.
func (r Rules) MaxDuration() time.Duration {
	return time.Duration(r.MaxReservationHours) * time.Hour
}

// MinNotice is the minimum lead time between now and the window start.
func (r Rules) MinNotice() time.Duration {
	return time.Duration(r.InAdvanceHours)*time.Hour + time.Duration(r.InAdvanceMinutes)*time.Minute
}

// Horizon is the furthest ahead of now this tier may book.
func (r Rules) Horizon() time.Duration {
	return time.Duration(r.InPriorDays) * 24 * time.Hour
}
