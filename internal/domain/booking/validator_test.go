//go:build unit

package booking_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func validRequest() booking.Request {
	return booking.Request{
		Window: booking.TimeRange{
			Start: now.Add(3 * time.Hour),
			End:   now.Add(5 * time.Hour),
		},
		Guests:       4,
		Entitlements: []string{"grill"},
	}
}

func assertRejection(t *testing.T, err error, code booking.Code, reason string) {
	t.Helper()
	var rejection *booking.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, code, rejection.Code)
	assert.Equal(t, reason, rejection.Reason)
}

func TestValidatorAccepts(t *testing.T) {
	cal, err := builder.NewCalendarBuilder().BuildDomain()
	require.NoError(t, err)
	u, err := builder.NewUserBuilder().BuildDomain()
	require.NoError(t, err)

	v := booking.NewValidator(clock.NewMockClock(now))

	rules, err := v.Validate(validRequest(), cal, u)
	require.NoError(t, err)
	assert.Equal(t, cal.ActiveMemberRules(), rules)
}

func TestValidatorRejections(t *testing.T) {
	v := booking.NewValidator(clock.NewMockClock(now))

	cases := []struct {
		name     string
		request  func() booking.Request
		calendar func() *builder.CalendarBuilder
		user     func() *builder.UserBuilder
		code     booking.Code
		reason   string
	}{
		{
			name: "missing entitlement",
			request: func() booking.Request {
				r := validRequest()
				r.Entitlements = []string{"sauna"}
				return r
			},
			code:   booking.CodeEntitlement,
			reason: "You don't have grill service!",
		},
		{
			name: "start in the past",
			request: func() booking.Request {
				r := validRequest()
				r.Window.Start = now.Add(-time.Minute)
				return r
			},
			code:   booking.CodePastStart,
			reason: "You can't make a reservation before the present time!",
		},
		{
			name: "end before start",
			request: func() booking.Request {
				r := validRequest()
				r.Window.End = r.Window.Start.Add(-time.Hour)
				return r
			},
			code:   booking.CodeEndBefore,
			reason: "The end of a reservation cannot be before its beginning!",
		},
		{
			name: "over capacity without review",
			request: func() booking.Request {
				r := validRequest()
				r.Guests = 9
				return r
			},
			calendar: func() *builder.CalendarBuilder {
				return builder.NewCalendarBuilder().With(func(b *builder.CalendarBuilder) {
					b.OverCapacityWithReview = false
				})
			},
			code:   booking.CodeCapacity,
			reason: "You can't reserve this type of reservation for more than 8 people!",
		},
		{
			name: "window too long for tier",
			request: func() booking.Request {
				r := validRequest()
				r.Window.End = r.Window.Start.Add(7 * time.Hour)
				return r
			},
			code:   booking.CodeDuration,
			reason: "Reservation exceeds the allowed maximum of 6 hours.",
		},
		{
			name: "insufficient advance notice",
			request: func() booking.Request {
				r := validRequest()
				r.Window.Start = now.Add(time.Hour)
				r.Window.End = r.Window.Start.Add(time.Hour)
				return r
			},
			code:   booking.CodeNotice,
			reason: "You have to make reservations 1 hours and 30 minutes in advance!",
		},
		{
			name: "beyond booking horizon",
			request: func() booking.Request {
				r := validRequest()
				r.Window.Start = now.Add(31 * 24 * time.Hour)
				r.Window.End = r.Window.Start.Add(time.Hour)
				return r
			},
			code:   booking.CodeHorizon,
			reason: "You can't make reservations earlier than 30 days in advance!",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calBuilder := builder.NewCalendarBuilder()
			if tc.calendar != nil {
				calBuilder = tc.calendar()
			}
			cal, err := calBuilder.BuildDomain()
			require.NoError(t, err)

			userBuilder := builder.NewUserBuilder()
			if tc.user != nil {
				userBuilder = tc.user()
			}
			u, err := userBuilder.BuildDomain()
			require.NoError(t, err)

			_, err = v.Validate(tc.request(), cal, u)
			assertRejection(t, err, tc.code, tc.reason)
		})
	}
}

func TestValidatorTierSelection(t *testing.T) {
	v := booking.NewValidator(clock.NewMockClock(now))
	cal, err := builder.NewCalendarBuilder().BuildDomain()
	require.NoError(t, err)

	t.Run("club member gets the strictest tier", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithClubMember().BuildDomain()
		require.NoError(t, err)

		// 4 hours is fine for active members but over the 3 hour club cap
		req := validRequest()
		req.Window.Start = now.Add(25 * time.Hour)
		req.Window.End = req.Window.Start.Add(4 * time.Hour)

		_, err = v.Validate(req, cal, u)
		assertRejection(t, err, booking.CodeDuration, "Reservation exceeds the allowed maximum of 3 hours.")
	})

	t.Run("manager of the owning service gets the loosest tier", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithManagerOf("grill").BuildDomain()
		require.NoError(t, err)

		req := validRequest()
		req.Window.End = req.Window.Start.Add(12 * time.Hour)

		rules, err := v.Validate(req, cal, u)
		require.NoError(t, err)
		assert.Equal(t, cal.ManagerRules(), rules)
	})

	t.Run("manager of another service gets the active tier", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithManagerOf("sauna").BuildDomain()
		require.NoError(t, err)

		req := validRequest()
		req.Entitlements = []string{"grill", "sauna"}

		rules, err := v.Validate(req, cal, u)
		require.NoError(t, err)
		assert.Equal(t, cal.ActiveMemberRules(), rules)
	})

	t.Run("inactive manager still falls to the club tier", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithClubMember().WithManagerOf("grill").BuildDomain()
		require.NoError(t, err)

		req := validRequest()
		req.Window.Start = now.Add(25 * time.Hour)
		req.Window.End = req.Window.Start.Add(time.Hour)

		rules, err := v.Validate(req, cal, u)
		require.NoError(t, err)
		assert.Equal(t, cal.ClubMemberRules(), rules)
	})
}

func TestRejectCollision(t *testing.T) {
	assertRejection(t, booking.RejectCollision(), booking.CodeCollision,
		"There's already a reservation for that time.")
}
