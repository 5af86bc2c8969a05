package queries

import (
	"context"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrEventNotFound = errs.New("event not found")

type EventReadStore interface {
	FindByID(ctx context.Context, id string, includeRemoved bool) (*EventView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, filter EventFilter) ([]*EventView, error)
	FindByServiceAliases(ctx context.Context, aliases []string, filter EventFilter) ([]*EventView, error)
	FindCurrentForUser(ctx context.Context, userID uuid.UUID) (*EventView, error)
}

type EventQueries interface {
	GetByID(ctx context.Context, id string) (*EventView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter EventFilter) ([]*EventView, error)
	// ListByManagedAliases returns events on every calendar whose owning
	// service the caller manages (manager dashboards).
	ListByManagedAliases(ctx context.Context, aliases []string, filter EventFilter) ([]*EventView, error)
	// CurrentForUser returns the event whose window contains the present
	// moment, or nil when the user has none.
	CurrentForUser(ctx context.Context, userID uuid.UUID) (*EventView, error)
}

type eventQueriesImpl struct {
	store EventReadStore
}

func NewEventQueries(store EventReadStore) EventQueries {
	return &eventQueriesImpl{store: store}
}

func (q *eventQueriesImpl) GetByID(ctx context.Context, id string) (*EventView, error) {
	view, err := q.store.FindByID(ctx, id, false)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, errs.Wrap(err, "failed to get event")
	}
	return view, nil
}

func (q *eventQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, filter EventFilter) ([]*EventView, error) {
	views, err := q.store.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list events by user")
	}
	return views, nil
}

func (q *eventQueriesImpl) ListByManagedAliases(ctx context.Context, aliases []string, filter EventFilter) ([]*EventView, error) {
	if len(aliases) == 0 {
		return []*EventView{}, nil
	}
	views, err := q.store.FindByServiceAliases(ctx, aliases, filter)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list events by managed aliases")
	}
	return views, nil
}

func (q *eventQueriesImpl) CurrentForUser(ctx context.Context, userID uuid.UUID) (*EventView, error) {
	view, err := q.store.FindCurrentForUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to get current event")
	}
	return view, nil
}
