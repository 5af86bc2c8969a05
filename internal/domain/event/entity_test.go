//go:build unit

package event_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReservation(t *testing.T, state event.State) *event.Reservation {
	t.Helper()
	res, err := builder.NewEventBuilder().WithState(state).BuildDomain()
	require.NoError(t, err)
	return res
}

func TestReservationConfirm(t *testing.T) {
	t.Run("confirms a not-approved reservation", func(t *testing.T) {
		res := buildReservation(t, event.StateNotApproved)
		require.NoError(t, res.Confirm())
		assert.Equal(t, event.StateConfirmed, res.State())
	})

	for _, state := range []event.State{event.StateConfirmed, event.StateUpdateRequested, event.StateCanceled} {
		t.Run("rejects confirm from "+state.String(), func(t *testing.T) {
			res := buildReservation(t, state)
			assert.ErrorIs(t, res.Confirm(), event.ErrNotApprovable)
		})
	}
}

func TestReservationCancel(t *testing.T) {
	before := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	after := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)

	t.Run("cancels before window end", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		require.NoError(t, res.Cancel(before))
		assert.True(t, res.IsCanceled())
	})

	t.Run("cancel clears a pending time change", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		proposed, err := event.NewTimeWindow(before.Add(48*time.Hour), before.Add(50*time.Hour))
		require.NoError(t, err)
		require.NoError(t, res.RequestTimeChange(proposed, before))
		require.NotNil(t, res.Pending())

		require.NoError(t, res.Cancel(before))
		assert.Nil(t, res.Pending())
	})

	t.Run("rejects double cancel", func(t *testing.T) {
		res := buildReservation(t, event.StateCanceled)
		assert.ErrorIs(t, res.Cancel(before), event.ErrAlreadyCanceled)
	})

	t.Run("rejects cancel after window end", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		assert.ErrorIs(t, res.Cancel(after), event.ErrAlreadyEnded)
	})
}

func TestReservationTimeChange(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	proposed := func(t *testing.T) event.TimeWindow {
		t.Helper()
		w, err := event.NewTimeWindow(now.Add(48*time.Hour), now.Add(50*time.Hour))
		require.NoError(t, err)
		return w
	}

	t.Run("request parks the reservation and keeps the committed window", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		committed := res.Window()

		require.NoError(t, res.RequestTimeChange(proposed(t), now))
		assert.Equal(t, event.StateUpdateRequested, res.State())
		assert.Equal(t, committed, res.Window())
		require.NotNil(t, res.Pending())
		assert.Equal(t, proposed(t), res.Pending().Window())
	})

	t.Run("rejects a second request while one is pending", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		require.NoError(t, res.RequestTimeChange(proposed(t), now))
		assert.ErrorIs(t, res.RequestTimeChange(proposed(t), now), event.ErrUpdateAlreadyRequested)
	})

	t.Run("rejects request once the window has started", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		started := res.Window().Start().Add(time.Minute)
		assert.ErrorIs(t, res.RequestTimeChange(proposed(t), started), event.ErrAlreadyStarted)
	})

	t.Run("rejects request on a canceled reservation", func(t *testing.T) {
		res := buildReservation(t, event.StateCanceled)
		assert.ErrorIs(t, res.RequestTimeChange(proposed(t), now), event.ErrAlreadyCanceled)
	})

	t.Run("approve commits the pending window", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		require.NoError(t, res.RequestTimeChange(proposed(t), now))

		committed, err := res.ApproveTimeChange()
		require.NoError(t, err)
		assert.Equal(t, proposed(t), committed)
		assert.Equal(t, event.StateConfirmed, res.State())
		assert.Equal(t, proposed(t), res.Window())
		assert.Nil(t, res.Pending())
	})

	t.Run("decline keeps the committed window", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		committed := res.Window()
		require.NoError(t, res.RequestTimeChange(proposed(t), now))

		require.NoError(t, res.DeclineTimeChange())
		assert.Equal(t, event.StateConfirmed, res.State())
		assert.Equal(t, committed, res.Window())
		assert.Nil(t, res.Pending())
	})

	t.Run("approve without a pending change fails", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		_, err := res.ApproveTimeChange()
		assert.ErrorIs(t, err, event.ErrNoPendingChange)
	})

	t.Run("decline is not repeatable", func(t *testing.T) {
		res := buildReservation(t, event.StateConfirmed)
		require.NoError(t, res.RequestTimeChange(proposed(t), now))
		require.NoError(t, res.DeclineTimeChange())
		assert.ErrorIs(t, res.DeclineTimeChange(), event.ErrNoPendingChange)
	})
}

func TestReservationHardDelete(t *testing.T) {
	t.Run("only canceled reservations may be removed", func(t *testing.T) {
		res := buildReservation(t, event.StateCanceled)
		assert.NoError(t, res.CanHardDelete())
	})

	for _, state := range []event.State{event.StateNotApproved, event.StateConfirmed, event.StateUpdateRequested} {
		t.Run("rejects removal from "+state.String(), func(t *testing.T) {
			res := buildReservation(t, state)
			assert.ErrorIs(t, res.CanHardDelete(), event.ErrNotCanceled)
		})
	}
}

func TestReservationUpdateDetails(t *testing.T) {
	res := buildReservation(t, event.StateConfirmed)

	purpose := "team meeting"
	guests := 6
	res.UpdateDetails(&purpose, &guests, nil)

	assert.Equal(t, "team meeting", res.Purpose())
	assert.Equal(t, 6, res.Guests())
	assert.Equal(t, "jnovak@example.com", res.Email())
}
