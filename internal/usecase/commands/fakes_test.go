//go:build unit

package commands_test

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

func repoNotFound(what string) error {
	return infra.WrapRepoErr(what+" not found", errors.New("no rows in result set"), infra.KindNotFound)
}

type fakeEventRepo struct {
	byID    map[string]*event.Reservation
	removed map[string]bool

	createErr error
	updateErr error

	created     []*event.Reservation
	updateCalls int
	softDeleted []string
}

func newFakeEventRepo(events ...*event.Reservation) *fakeEventRepo {
	r := &fakeEventRepo{
		byID:    map[string]*event.Reservation{},
		removed: map[string]bool{},
	}
	for _, e := range events {
		r.byID[e.ID()] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, res *event.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[res.ID()] = res
	r.created = append(r.created, res)
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, res *event.Reservation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byID[res.ID()] = res
	r.updateCalls++
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id string, includeRemoved bool) (*event.Reservation, error) {
	res, ok := r.byID[id]
	if !ok || (r.removed[id] && !includeRemoved) {
		return nil, repoNotFound("event")
	}
	return res, nil
}

func (r *fakeEventRepo) SoftDelete(_ context.Context, id string) error {
	r.removed[id] = true
	r.softDeleted = append(r.softDeleted, id)
	return nil
}

func (r *fakeEventRepo) Restore(_ context.Context, id string) error {
	if !r.removed[id] {
		return repoNotFound("event")
	}
	delete(r.removed, id)
	return nil
}

type fakeCalendarRepo struct {
	byID    map[string]*calendar.Calendar
	removed map[string]bool

	saved   []*calendar.Calendar
	deleted []string
}

func newFakeCalendarRepo(calendars ...*calendar.Calendar) *fakeCalendarRepo {
	r := &fakeCalendarRepo{
		byID:    map[string]*calendar.Calendar{},
		removed: map[string]bool{},
	}
	for _, c := range calendars {
		r.byID[c.ID()] = c
	}
	return r
}

func (r *fakeCalendarRepo) FindByID(_ context.Context, id string, includeRemoved bool) (*calendar.Calendar, error) {
	cal, ok := r.byID[id]
	if !ok || (r.removed[id] && !includeRemoved) {
		return nil, repoNotFound("calendar")
	}
	return cal, nil
}

func (r *fakeCalendarRepo) Create(_ context.Context, cal *calendar.Calendar) error {
	r.byID[cal.ID()] = cal
	r.saved = append(r.saved, cal)
	return nil
}

func (r *fakeCalendarRepo) Update(_ context.Context, cal *calendar.Calendar) error {
	r.byID[cal.ID()] = cal
	r.saved = append(r.saved, cal)
	return nil
}

func (r *fakeCalendarRepo) Restore(_ context.Context, id string) error {
	if !r.removed[id] {
		return repoNotFound("calendar")
	}
	delete(r.removed, id)
	return nil
}

func (r *fakeCalendarRepo) SoftDelete(_ context.Context, id string) error {
	r.removed[id] = true
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeCalendarRepo) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	var found []string
	for _, id := range ids {
		if _, ok := r.byID[id]; ok && !r.removed[id] {
			found = append(found, id)
		}
	}
	return found, nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[uuid.UUID]*user.User{}}
	for _, u := range users {
		r.byID[u.ID()] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repoNotFound("user")
	}
	return u, nil
}

type fakeExternal struct {
	busy   map[string][]event.BusyWindow
	events map[string]commands.ExternalEvent

	fetchErr  error
	insertErr error
	getErr    error
	updateErr error
	deleteErr error

	nextEventID string
	inserted    []commands.ExternalEventBody
	updated     map[string]commands.ExternalEventBody
	deleted     []string

	createdCalendarID string
	createCalendarErr error
	createdSummaries  []string
	accessErr         error
	checkedAccess     []string
}

func newFakeExternal() *fakeExternal {
	return &fakeExternal{
		busy:        map[string][]event.BusyWindow{},
		events:      map[string]commands.ExternalEvent{},
		nextEventID: "ext-evt-100",
		updated:     map[string]commands.ExternalEventBody{},
	}
}

func (f *fakeExternal) FetchEventsInRange(_ context.Context, calendarID string, _, _ time.Time) ([]event.BusyWindow, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.busy[calendarID], nil
}

func (f *fakeExternal) InsertEvent(_ context.Context, _ string, body commands.ExternalEventBody) (commands.ExternalEvent, error) {
	if f.insertErr != nil {
		return commands.ExternalEvent{}, f.insertErr
	}
	f.inserted = append(f.inserted, body)
	ext := commands.ExternalEvent{
		ID:          f.nextEventID,
		Summary:     body.Summary,
		Description: body.Description,
		Start:       body.Start,
		End:         body.End,
	}
	f.events[ext.ID] = ext
	return ext, nil
}

func (f *fakeExternal) GetEvent(_ context.Context, _, eventID string) (commands.ExternalEvent, error) {
	if f.getErr != nil {
		return commands.ExternalEvent{}, f.getErr
	}
	ext, ok := f.events[eventID]
	if !ok {
		return commands.ExternalEvent{}, repoNotFound("external event")
	}
	return ext, nil
}

func (f *fakeExternal) UpdateEvent(_ context.Context, _, eventID string, body commands.ExternalEventBody) (commands.ExternalEvent, error) {
	if f.updateErr != nil {
		return commands.ExternalEvent{}, f.updateErr
	}
	f.updated[eventID] = body
	ext := commands.ExternalEvent{
		ID:          eventID,
		Summary:     body.Summary,
		Description: body.Description,
		Start:       body.Start,
		End:         body.End,
	}
	f.events[eventID] = ext
	return ext, nil
}

func (f *fakeExternal) DeleteEvent(_ context.Context, _, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	delete(f.events, eventID)
	return nil
}

func (f *fakeExternal) CreateCalendar(_ context.Context, summary string) (string, error) {
	if f.createCalendarErr != nil {
		return "", f.createCalendarErr
	}
	f.createdSummaries = append(f.createdSummaries, summary)
	return f.createdCalendarID, nil
}

func (f *fakeExternal) CheckCalendarAccess(_ context.Context, calendarID string) error {
	f.checkedAccess = append(f.checkedAccess, calendarID)
	return f.accessErr
}

// mirror seeds the calendar-of-record entry for an already persisted
// reservation so summary rewrites and time updates have something to fetch.
func (f *fakeExternal) mirror(res *event.Reservation, summary string) {
	f.events[res.ID()] = commands.ExternalEvent{
		ID:      res.ID(),
		Summary: summary,
		Start:   res.Window().Start(),
		End:     res.Window().End(),
	}
}

type fakeNotifier struct {
	jobs []commands.Notification
	err  error
}

func (f *fakeNotifier) Publish(_ context.Context, n commands.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, n)
	return nil
}

type fakeEntitlements struct {
	byUser map[string][]string
	err    error
}

func (f *fakeEntitlements) EntitlementsFor(_ context.Context, username string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[username], nil
}
