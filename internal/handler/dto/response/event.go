package response

import (
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type EventResponse struct {
	ID              string     `json:"id"`
	CalendarID      string     `json:"calendar_id"`
	ReservationType string     `json:"reservation_type,omitempty"`
	UserID          uuid.UUID  `json:"user_id"`
	UserFullName    string     `json:"user_full_name,omitempty"`
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

type CreateEventResponse struct {
	Event          EventResponse `json:"event"`
	RequiresReview bool          `json:"requires_review"`
	ReviewReason   string        `json:"review_reason,omitempty"`
}

func FromEventView(view *queries.EventView) *EventResponse {
	var resp EventResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromEventViews(views []*queries.EventView) []*EventResponse {
	resps := make([]*EventResponse, 0, len(views))
	for _, view := range views {
		resps = append(resps, FromEventView(view))
	}
	return resps
}

// FromReservation builds the response straight from the entity for the
// write paths, where no read-side view exists yet.
func FromReservation(res *event.Reservation, reservationType string) *EventResponse {
	resp := &EventResponse{
		ID:              res.ID(),
		CalendarID:      res.CalendarID(),
		ReservationType: reservationType,
		UserID:          res.UserID(),
		Start:           res.Window().Start(),
		End:             res.Window().End(),
		State:           res.State().String(),
		Purpose:         res.Purpose(),
		Guests:          res.Guests(),
		Email:           res.Email(),
		Extras:          res.Extras(),
		CreatedAt:       res.CreatedAt(),
		UpdatedAt:       res.UpdatedAt(),
	}
	if p := res.Pending(); p != nil {
		start, end := p.Window().Start(), p.Window().End()
		resp.RequestedStart = &start
		resp.RequestedEnd = &end
	}
	return resp
}

func FromCreateResult(result *commands.CreateEventResult) *CreateEventResponse {
	return &CreateEventResponse{
		Event:          *FromReservation(result.Reservation, result.ReservationType),
		RequiresReview: result.RequiresReview,
		ReviewReason:   result.ReviewReason,
	}
}
