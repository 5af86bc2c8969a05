// Package booking implements the rule pipeline a reservation request must
// pass before anything is created. Every check failure is a Rejection: a
// normal, user-facing outcome rather than an error condition, produced
// strictly before any state exists.
package booking

import (
	"fmt"
	"slices"
	"time"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/clock"
)

// Code identifies which check rejected the request.
type Code string

const (
	CodeEntitlement Code = "entitlement"
	CodePastStart   Code = "past_start"
	CodeEndBefore   Code = "end_before_start"
	CodeCapacity    Code = "capacity"
	CodeDuration    Code = "duration"
	CodeNotice      Code = "advance_notice"
	CodeHorizon     Code = "booking_horizon"
	CodeCollision   Code = "collision"
)

// Rejection is a soft validation failure. Reason is safe to show to the
// requesting user verbatim.
type Rejection struct {
	Code   Code
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func Reject(code Code, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Request is a candidate booking as it enters the pipeline.
type Request struct {
	Window TimeRange
	Guests int
	// Entitlements are the service aliases the identity provider reports
	// for the requesting user.
	Entitlements []string
}

// TimeRange mirrors event.TimeWindow edges before the window value object
// can be built (the pipeline must reject inverted ranges itself).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Validator runs the fixed-order rule pipeline. It holds no per-request
// state and is safe for concurrent use.
type Validator struct {
	clock clock.Clock
}

func NewValidator(clock clock.Clock) *Validator {
	return &Validator{clock: clock}
}

// Validate executes every check in order and stops at the first failure:
// entitlement, time sanity, hard capacity, then the tier-resolved duration,
// advance-notice and booking-horizon limits. A nil return together with the
// resolved rules means the request may proceed to collision detection.
func (v *Validator) Validate(req Request, cal *calendar.Calendar, u *user.User) (calendar.Rules, error) {
	now := v.clock.Now()

	if !slices.Contains(req.Entitlements, cal.ServiceAlias()) {
		return calendar.Rules{}, Reject(CodeEntitlement, "You don't have %s service!", cal.ServiceAlias())
	}

	if req.Window.Start.Before(now) {
		return calendar.Rules{}, Reject(CodePastStart, "You can't make a reservation before the present time!")
	}
	if req.Window.End.Before(req.Window.Start) {
		return calendar.Rules{}, Reject(CodeEndBefore, "The end of a reservation cannot be before its beginning!")
	}

	// Over-capacity requests are only a hard reject when the calendar does
	// not allow them to go to manager review; otherwise the lifecycle routes
	// them to the not-approved state at creation time.
	if !cal.OverCapacityWithReview() && req.Guests > cal.MaxPeople() {
		return calendar.Rules{}, Reject(CodeCapacity,
			"You can't reserve this type of reservation for more than %d people!", cal.MaxPeople())
	}

	rules := cal.RulesFor(u)

	if req.Window.End.Sub(req.Window.Start) > rules.MaxDuration() {
		return calendar.Rules{}, Reject(CodeDuration,
			"Reservation exceeds the allowed maximum of %d hours.", rules.MaxReservationHours)
	}

	if req.Window.Start.Sub(now) < rules.MinNotice() {
		return calendar.Rules{}, Reject(CodeNotice,
			"You have to make reservations %d hours and %d minutes in advance!",
			rules.InAdvanceHours, rules.InAdvanceMinutes)
	}

	if req.Window.Start.Sub(now) > rules.Horizon() {
		return calendar.Rules{}, Reject(CodeHorizon,
			"You can't make reservations earlier than %d days in advance!", rules.InPriorDays)
	}

	return rules, nil
}

// RejectCollision is the soft failure produced when collision detection
// finds the window already booked.
func RejectCollision() *Rejection {
	return Reject(CodeCollision, "There's already a reservation for that time.")
}
