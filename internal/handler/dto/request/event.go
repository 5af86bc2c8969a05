package request

import (
	"strings"
	"time"

	"reservation-engine/internal/usecase/commands"
)

type CreateEventRequest struct {
	CalendarID string    `json:"calendar_id" binding:"required"`
	Start      time.Time `json:"reservation_start" binding:"required"`
	End        time.Time `json:"reservation_end" binding:"required"`
	Purpose    string    `json:"purpose" binding:"required"`
	Guests     int       `json:"guests" binding:"required,min=1"`
	Email      string    `json:"email" binding:"required,email"`
	Extras     []string  `json:"additional_services,omitempty"`
}

func (r CreateEventRequest) ToCommand() commands.CreateEventCommand {
	return commands.CreateEventCommand{
		CalendarID: r.CalendarID,
		Start:      r.Start,
		End:        r.End,
		Purpose:    strings.TrimSpace(r.Purpose),
		Guests:     r.Guests,
		Email:      strings.TrimSpace(r.Email),
		Extras:     r.Extras,
	}
}

type ResolveApprovalRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

type CancelEventRequest struct {
	Reason string `json:"reason,omitempty"`
}

type RequestTimeChangeRequest struct {
	Start  time.Time `json:"requested_reservation_start" binding:"required"`
	End    time.Time `json:"requested_reservation_end" binding:"required"`
	Reason string    `json:"reason,omitempty"`
}

type ResolveTimeChangeRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

type UpdateEventRequest struct {
	Start   *time.Time `json:"reservation_start,omitempty"`
	End     *time.Time `json:"reservation_end,omitempty"`
	Purpose *string    `json:"purpose,omitempty"`
	Guests  *int       `json:"guests,omitempty"`
	Email   *string    `json:"email,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

func (r UpdateEventRequest) ToCommand() commands.UpdateEventCommand {
	return commands.UpdateEventCommand{
		Start:   r.Start,
		End:     r.End,
		Purpose: r.Purpose,
		Guests:  r.Guests,
		Email:   r.Email,
		Reason:  r.Reason,
	}
}
