package repository

import (
	"context"
	"errors"
	"time"

	"reservation-engine/internal/domain/event"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, calendar_id, user_id, start_time, end_time,
	requested_start, requested_end, state, purpose, guests, email, extras,
	created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, res *event.Reservation) error {
	const q = `INSERT INTO events
		(id, calendar_id, user_id, start_time, end_time, state, purpose, guests, email, extras)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, q,
		res.ID(), res.CalendarID(), res.UserID(),
		res.Window().Start(), res.Window().End(),
		res.State().String(), res.Purpose(), res.Guests(), res.Email(), res.Extras(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return infra.WrapRepoErr("event already exists", err, infra.KindDuplicateKey)
			case "23503":
				return infra.WrapRepoErr("referenced calendar or user missing", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to create event", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, res *event.Reservation) error {
	const q = `UPDATE events SET
		start_time = $2, end_time = $3, requested_start = $4, requested_end = $5,
		state = $6, purpose = $7, guests = $8, email = $9, extras = $10, updated_at = NOW()
		WHERE id = $1 AND removed_at IS NULL`

	var reqStart, reqEnd *time.Time
	if p := res.Pending(); p != nil {
		s, e := p.Window().Start(), p.Window().End()
		reqStart, reqEnd = &s, &e
	}

	tag, err := r.pool.Exec(ctx, q,
		res.ID(),
		res.Window().Start(), res.Window().End(),
		pgconv.TimestamptzFromPtr(reqStart), pgconv.TimestamptzFromPtr(reqEnd),
		res.State().String(), res.Purpose(), res.Guests(), res.Email(), res.Extras(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string, includeRemoved bool) (*event.Reservation, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if !includeRemoved {
		q += ` AND removed_at IS NULL`
	}
	res, err := scanEvent(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find event", err)
	}
	return res, nil
}

func (r *EventRepository) SoftDelete(ctx context.Context, id string) error {
	const q = `UPDATE events SET removed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND removed_at IS NULL`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *EventRepository) Restore(ctx context.Context, id string) error {
	const q = `UPDATE events SET removed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND removed_at IS NOT NULL`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to restore event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func scanEvent(row pgx.Row) (*event.Reservation, error) {
	var (
		id, calendarID       string
		userID               uuid.UUID
		start, end           time.Time
		rawReqStart          pgtype.Timestamptz
		rawReqEnd            pgtype.Timestamptz
		state                string
		purpose, email       string
		guests               int
		extras               []string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &calendarID, &userID, &start, &end,
		&rawReqStart, &rawReqEnd, &state, &purpose, &guests, &email, &extras,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	window, err := event.NewTimeWindow(start, end)
	if err != nil {
		return nil, err
	}

	reqStart := pgconv.TimestamptzPtr(rawReqStart)
	reqEnd := pgconv.TimestamptzPtr(rawReqEnd)

	var pending *event.PendingChange
	if reqStart != nil && reqEnd != nil {
		w, err := event.NewTimeWindow(*reqStart, *reqEnd)
		if err != nil {
			return nil, err
		}
		p := event.NewPendingChange(w)
		pending = &p
	}

	return event.Reconstruct(
		id, calendarID, userID, window, pending, event.State(state),
		purpose, guests, email, extras, createdAt, updatedAt,
	), nil
}
