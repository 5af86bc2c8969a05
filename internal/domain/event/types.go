package event

// State is the lifecycle state of a reservation.
type State string

const (
	// StateNotApproved is the initial state of reservations that need a
	// manager decision before they count as booked.
	StateNotApproved State = "not_approved"
	StateConfirmed   State = "confirmed"
	// StateUpdateRequested marks a confirmed reservation with an
	// outstanding time-change proposal.
	StateUpdateRequested State = "update_requested"
	StateCanceled        State = "canceled"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateNotApproved, StateConfirmed, StateUpdateRequested, StateCanceled:
		return true
	default:
		return false
	}
}
