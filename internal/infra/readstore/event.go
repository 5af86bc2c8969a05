package readstore

import (
	"context"
	"strconv"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventReadStore struct {
	pool *pgxpool.Pool
}

func NewEventReadStore(pool *pgxpool.Pool) *EventReadStore {
	return &EventReadStore{pool: pool}
}

const eventViewSelect = `SELECT
		e.id, e.calendar_id, c.reservation_type, e.user_id, u.full_name,
		e.start_time, e.end_time, e.requested_start, e.requested_end,
		e.state, e.purpose, e.guests, e.email, e.extras,
		e.created_at, e.updated_at
	FROM events e
	JOIN calendars c ON c.id = e.calendar_id
	JOIN users u ON u.id = e.user_id`

func (s *EventReadStore) FindByID(ctx context.Context, id string, includeRemoved bool) (*queries.EventView, error) {
	q := eventViewSelect + ` WHERE e.id = $1`
	if !includeRemoved {
		q += ` AND e.removed_at IS NULL`
	}
	view, err := scanEventView(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find event", err)
	}
	return view, nil
}

func (s *EventReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, filter queries.EventFilter) ([]*queries.EventView, error) {
	q := eventViewSelect + ` WHERE e.user_id = $1 AND e.removed_at IS NULL`
	args := []any{userID}
	q, args = applyFilter(q, args, filter)
	q += ` ORDER BY e.start_time DESC`
	return s.list(ctx, q, args)
}

func (s *EventReadStore) FindByServiceAliases(ctx context.Context, aliases []string, filter queries.EventFilter) ([]*queries.EventView, error) {
	q := eventViewSelect + ` WHERE c.service_alias = ANY($1) AND e.removed_at IS NULL`
	args := []any{aliases}
	q, args = applyFilter(q, args, filter)
	q += ` ORDER BY e.start_time DESC`
	return s.list(ctx, q, args)
}

func (s *EventReadStore) FindCurrentForUser(ctx context.Context, userID uuid.UUID) (*queries.EventView, error) {
	q := eventViewSelect + ` WHERE e.user_id = $1 AND e.removed_at IS NULL
		AND e.state = 'confirmed'
		AND e.start_time <= NOW() AND e.end_time > NOW()
		ORDER BY e.start_time LIMIT 1`
	view, err := scanEventView(s.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no current event", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find current event", err)
	}
	return view, nil
}

func (s *EventReadStore) list(ctx context.Context, q string, args []any) ([]*queries.EventView, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list events", err)
	}
	defer rows.Close()

	views := []*queries.EventView{}
	for rows.Next() {
		view, err := scanEventView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list events", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list events", err)
	}
	return views, nil
}

func applyFilter(q string, args []any, filter queries.EventFilter) (string, []any) {
	if filter.State != nil {
		args = append(args, *filter.State)
		q += ` AND e.state = $` + strconv.Itoa(len(args))
	}
	if filter.Past != nil {
		if *filter.Past {
			q += ` AND e.end_time <= NOW()`
		} else {
			q += ` AND e.end_time > NOW()`
		}
	}
	return q, args
}

func scanEventView(row pgx.Row) (*queries.EventView, error) {
	var (
		view             queries.EventView
		reqStart, reqEnd *time.Time
	)
	err := row.Scan(
		&view.ID, &view.CalendarID, &view.ReservationType, &view.UserID, &view.UserFullName,
		&view.Start, &view.End, &reqStart, &reqEnd,
		&view.State, &view.Purpose, &view.Guests, &view.Email, &view.Extras,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.RequestedStart = reqStart
	view.RequestedEnd = reqEnd
	return &view, nil
}
