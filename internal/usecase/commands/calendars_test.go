//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarFixture struct {
	calendars *fakeCalendarRepo
	users     *fakeUserRepo
	external  *fakeExternal
	commands  commands.CalendarCommands
}

func newCalendarFixture() *calendarFixture {
	f := &calendarFixture{
		calendars: newFakeCalendarRepo(),
		users:     newFakeUserRepo(),
		external:  newFakeExternal(),
	}
	f.external.createdCalendarID = "new-calendar@example.org"
	f.commands = commands.NewCalendarCommands(f.calendars, f.users, f.external)
	return f
}

func calendarCommand() commands.CalendarCommand {
	b := builder.NewCalendarBuilder()
	return commands.CalendarCommand{
		ReservationType:        b.ReservationType,
		Color:                  b.Color,
		MaxPeople:              b.MaxPeople,
		OverCapacityWithReview: b.OverCapacityWithReview,
		ClubMemberRules:        b.ClubMemberRules,
		ActiveMemberRules:      b.ActiveMemberRules,
		ManagerRules:           b.ManagerRules,
		ServiceAlias:           b.ServiceAlias,
		ServiceName:            b.ServiceName,
	}
}

func TestCreateCalendar(t *testing.T) {
	t.Run("provisions an external calendar when no id is given", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		cal, err := f.commands.CreateCalendar(context.Background(), head.ID(), calendarCommand())

		require.NoError(t, err)
		assert.Equal(t, "new-calendar@example.org", cal.ID())
		assert.Equal(t, []string{"Grill"}, f.external.createdSummaries)
		require.Len(t, f.calendars.saved, 1)
	})

	t.Run("verifies write access when importing an existing calendar", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		cmd := calendarCommand()
		cmd.ID = "imported@example.org"
		cal, err := f.commands.CreateCalendar(context.Background(), head.ID(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "imported@example.org", cal.ID())
		assert.Equal(t, []string{"imported@example.org"}, f.external.checkedAccess)
		assert.Empty(t, f.external.createdSummaries)
	})

	t.Run("surfaces denied external access", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		f.external.accessErr = errors.New("forbidden")

		cmd := calendarCommand()
		cmd.ID = "imported@example.org"
		_, err = f.commands.CreateCalendar(context.Background(), head.ID(), cmd)

		assert.ErrorIs(t, err, commands.ErrExternalCalendar)
		assert.Empty(t, f.calendars.saved)
	})

	t.Run("the service manager may administer their own calendar", func(t *testing.T) {
		f := newCalendarFixture()
		manager, err := builder.NewUserBuilder().WithManagerOf("grill").BuildDomain()
		require.NoError(t, err)
		f.users.byID[manager.ID()] = manager

		_, err = f.commands.CreateCalendar(context.Background(), manager.ID(), calendarCommand())
		require.NoError(t, err)
	})

	t.Run("plain members are refused", func(t *testing.T) {
		f := newCalendarFixture()
		member, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		f.users.byID[member.ID()] = member

		_, err = f.commands.CreateCalendar(context.Background(), member.ID(), calendarCommand())
		assert.ErrorIs(t, err, commands.ErrPermissionDenied)
		assert.Empty(t, f.external.createdSummaries)
	})

	t.Run("rejects collision edges toward unknown calendars", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		cmd := calendarCommand()
		cmd.CollisionIDs = []string{"ghost@example.org"}
		_, err = f.commands.CreateCalendar(context.Background(), head.ID(), cmd)

		assert.ErrorIs(t, err, commands.ErrDanglingCollision)
		assert.Empty(t, f.calendars.saved)
	})

	t.Run("rejects an invalid definition", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		cmd := calendarCommand()
		cmd.MaxPeople = 0
		_, err = f.commands.CreateCalendar(context.Background(), head.ID(), cmd)

		assert.ErrorIs(t, err, commands.ErrInvalidCalendar)
		assert.ErrorIs(t, err, calendar.ErrInvalidCapacity)
	})
}

func TestUpdateCalendar(t *testing.T) {
	seed := func(t *testing.T, f *calendarFixture) *calendar.Calendar {
		t.Helper()
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal
		return cal
	}

	t.Run("replaces the stored definition", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		existing := seed(t, f)

		other, err := builder.NewCalendarBuilder().With(func(b *builder.CalendarBuilder) {
			b.ID = "terrace@example.org"
		}).BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[other.ID()] = other

		cmd := calendarCommand()
		cmd.MaxPeople = 12
		cmd.CollisionIDs = []string{other.ID()}
		cal, err := f.commands.UpdateCalendar(context.Background(), existing.ID(), head.ID(), cmd)

		require.NoError(t, err)
		assert.Equal(t, 12, cal.MaxPeople())
		assert.Equal(t, []string{other.ID()}, cal.CollisionIDs())
		require.Len(t, f.calendars.saved, 1)
	})

	t.Run("unknown calendar", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		_, err = f.commands.UpdateCalendar(context.Background(), "missing@example.org", head.ID(), calendarCommand())
		assert.ErrorIs(t, err, commands.ErrCalendarNotFound)
	})

	t.Run("rejects dangling collision edges", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		existing := seed(t, f)

		cmd := calendarCommand()
		cmd.CollisionIDs = []string{"ghost@example.org"}
		_, err = f.commands.UpdateCalendar(context.Background(), existing.ID(), head.ID(), cmd)
		assert.ErrorIs(t, err, commands.ErrDanglingCollision)
	})
}

func TestDeleteCalendar(t *testing.T) {
	t.Run("section head retires a calendar", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal

		require.NoError(t, f.commands.DeleteCalendar(context.Background(), cal.ID(), head.ID()))
		assert.Equal(t, []string{cal.ID()}, f.calendars.deleted)
	})

	t.Run("plain members are refused", func(t *testing.T) {
		f := newCalendarFixture()
		member, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		f.users.byID[member.ID()] = member
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal

		err = f.commands.DeleteCalendar(context.Background(), cal.ID(), member.ID())
		assert.ErrorIs(t, err, commands.ErrPermissionDenied)
		assert.Empty(t, f.calendars.deleted)
	})

	t.Run("unknown calendar", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head

		err = f.commands.DeleteCalendar(context.Background(), "missing@example.org", head.ID())
		assert.ErrorIs(t, err, commands.ErrCalendarNotFound)
	})
}

func TestRestoreCalendar(t *testing.T) {
	t.Run("section head restores a deleted calendar", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal
		f.calendars.removed[cal.ID()] = true

		got, err := f.commands.RestoreCalendar(context.Background(), cal.ID(), head.ID())
		require.NoError(t, err)
		assert.Equal(t, cal.ID(), got.ID())
		assert.False(t, f.calendars.removed[cal.ID()])
	})

	t.Run("a live calendar cannot be restored", func(t *testing.T) {
		f := newCalendarFixture()
		head, err := builder.NewUserBuilder().WithSectionHead().BuildDomain()
		require.NoError(t, err)
		f.users.byID[head.ID()] = head
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal

		_, err = f.commands.RestoreCalendar(context.Background(), cal.ID(), head.ID())
		assert.ErrorIs(t, err, commands.ErrInvalidCalendar)
	})

	t.Run("plain members are refused", func(t *testing.T) {
		f := newCalendarFixture()
		member, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		f.users.byID[member.ID()] = member
		cal, err := builder.NewCalendarBuilder().BuildDomain()
		require.NoError(t, err)
		f.calendars.byID[cal.ID()] = cal
		f.calendars.removed[cal.ID()] = true

		_, err = f.commands.RestoreCalendar(context.Background(), cal.ID(), member.ID())
		assert.ErrorIs(t, err, commands.ErrPermissionDenied)
	})
}
