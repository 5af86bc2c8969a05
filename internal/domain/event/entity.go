package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotApprovable          = errors.New("only a not-approved reservation can be confirmed")
	ErrAlreadyCanceled        = errors.New("reservation is already canceled")
	ErrAlreadyEnded           = errors.New("reservation has already ended")
	ErrAlreadyStarted         = errors.New("reservation has already started")
	ErrUpdateAlreadyRequested = errors.New("reservation already has a pending time change")
	ErrNoPendingChange        = errors.New("reservation has no pending time change")
	ErrNotCanceled            = errors.New("only a canceled reservation can be removed")
)

// Reservation is a single booked time window against a calendar. Its id is
// the event id assigned by the external calendar-of-record when the booking
// was mirrored there.
type Reservation struct {
	id         string
	calendarID string
	userID     uuid.UUID
	window     TimeWindow
	pending    *PendingChange
	state      State
	purpose    string
	guests     int
	email      string
	extras     []string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReservation builds a freshly created reservation in its initial state.
// Validation and collision detection are the caller's responsibility; the
// entity only guards its own lifecycle invariants from here on.
func NewReservation(
	id string,
	calendarID string,
	userID uuid.UUID,
	window TimeWindow,
	state State,
	purpose string,
	guests int,
	email string,
	extras []string,
) *Reservation {
	return &Reservation{
		id:         id,
		calendarID: calendarID,
		userID:     userID,
		window:     window,
		state:      state,
		purpose:    purpose,
		guests:     guests,
		email:      email,
		extras:     extras,
	}
}

func Reconstruct(
	id string,
	calendarID string,
	userID uuid.UUID,
	window TimeWindow,
	pending *PendingChange,
	state State,
	purpose string,
	guests int,
	email string,
	extras []string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		calendarID: calendarID,
		userID:     userID,
		window:     window,
		pending:    pending,
		state:      state,
		purpose:    purpose,
		guests:     guests,
		email:      email,
		extras:     extras,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm moves a pending reservation to confirmed. Valid only from the
// not-approved state.
func (r *Reservation) Confirm() error {
	if r.state != StateNotApproved {
		return ErrNotApprovable
	}
	r.state = StateConfirmed
	return nil
}

// Cancel tombstones the booking. Any non-canceled reservation whose window
// has not yet ended can be canceled.
func (r *Reservation) Cancel(now time.Time) error {
	if r.state == StateCanceled {
		return ErrAlreadyCanceled
	}
	if r.window.HasEnded(now) {
		return ErrAlreadyEnded
	}
	r.state = StateCanceled
	r.pending = nil
	return nil
}

// RequestTimeChange records a proposed replacement window and parks the
// reservation until a manager decides. The committed window is untouched.
func (r *Reservation) RequestTimeChange(proposed TimeWindow, now time.Time) error {
	if r.state == StateCanceled {
		return ErrAlreadyCanceled
	}
	if r.state == StateUpdateRequested {
		return ErrUpdateAlreadyRequested
	}
	if r.window.HasStarted(now) {
		return ErrAlreadyStarted
	}
	p := NewPendingChange(proposed)
	r.pending = &p
	r.state = StateUpdateRequested
	return nil
}

// ApproveTimeChange commits the pending window and returns the reservation
// to confirmed.
func (r *Reservation) ApproveTimeChange() (TimeWindow, error) {
	if r.state != StateUpdateRequested || r.pending == nil {
		return TimeWindow{}, ErrNoPendingChange
	}
	r.window = r.pending.Window()
	r.pending = nil
	r.state = StateConfirmed
	return r.window, nil
}

// DeclineTimeChange discards the pending window; the committed window is
// left as it was.
func (r *Reservation) DeclineTimeChange() error {
	if r.state != StateUpdateRequested {
		return ErrNoPendingChange
	}
	r.pending = nil
	r.state = StateConfirmed
	return nil
}

// Reschedule replaces the committed window directly (manager edit path).
func (r *Reservation) Reschedule(window TimeWindow) error {
	if r.state == StateCanceled {
		return ErrAlreadyCanceled
	}
	r.window = window
	return nil
}

// UpdateDetails applies partial detail changes; nil fields are left alone.
func (r *Reservation) UpdateDetails(purpose *string, guests *int, email *string) {
	if purpose != nil {
		r.purpose = *purpose
	}
	if guests != nil {
		r.guests = *guests
	}
	if email != nil {
		r.email = *email
	}
}

// CanHardDelete reports whether the reservation may be removed outright.
func (r *Reservation) CanHardDelete() error {
	if r.state != StateCanceled {
		return ErrNotCanceled
	}
	return nil
}

func (r *Reservation) IsCanceled() bool { return r.state == StateCanceled }

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool { return r.userID == userID }

func (r *Reservation) ID() string              { return r.id }
func (r *Reservation) CalendarID() string      { return r.calendarID }
func (r *Reservation) UserID() uuid.UUID       { return r.userID }
func (r *Reservation) Window() TimeWindow      { return r.window }
func (r *Reservation) Pending() *PendingChange { return r.pending }
func (r *Reservation) State() State            { return r.state }
func (r *Reservation) Purpose() string         { return r.purpose }
func (r *Reservation) Guests() int             { return r.guests }
func (r *Reservation) Email() string           { return r.email }
func (r *Reservation) Extras() []string        { return r.extras }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time    { return r.updatedAt }
