package queries

import (
	"context"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
)

var ErrCalendarNotFound = errs.New("calendar not found")

type CalendarReadStore interface {
	FindByID(ctx context.Context, id string, includeRemoved bool) (*CalendarView, error)
	FindByReservationType(ctx context.Context, reservationType string, includeRemoved bool) (*CalendarView, error)
	FindAll(ctx context.Context, includeRemoved bool) ([]*CalendarView, error)
	FindByServiceAlias(ctx context.Context, alias string) ([]*CalendarView, error)
}

type CalendarQueries interface {
	GetByID(ctx context.Context, id string) (*CalendarView, error)
	GetByReservationType(ctx context.Context, reservationType string) (*CalendarView, error)
	List(ctx context.Context) ([]*CalendarView, error)
	ListByServiceAlias(ctx context.Context, alias string) ([]*CalendarView, error)
}

type calendarQueriesImpl struct {
	store CalendarReadStore
}

func NewCalendarQueries(store CalendarReadStore) CalendarQueries {
	return &calendarQueriesImpl{store: store}
}

func (q *calendarQueriesImpl) GetByID(ctx context.Context, id string) (*CalendarView, error) {
	view, err := q.store.FindByID(ctx, id, false)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Wrap(err, "failed to get calendar")
	}
	return view, nil
}

func (q *calendarQueriesImpl) GetByReservationType(ctx context.Context, reservationType string) (*CalendarView, error) {
	view, err := q.store.FindByReservationType(ctx, reservationType, false)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, errs.Wrap(err, "failed to get calendar by reservation type")
	}
	return view, nil
}

func (q *calendarQueriesImpl) List(ctx context.Context) ([]*CalendarView, error) {
	views, err := q.store.FindAll(ctx, false)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list calendars")
	}
	return views, nil
}

func (q *calendarQueriesImpl) ListByServiceAlias(ctx context.Context, alias string) ([]*CalendarView, error) {
	views, err := q.store.FindByServiceAlias(ctx, alias)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list calendars by service alias")
	}
	return views, nil
}
