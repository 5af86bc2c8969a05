package readstore

import (
	"context"
	"encoding/json"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarReadStore struct {
	pool *pgxpool.Pool
}

func NewCalendarReadStore(pool *pgxpool.Pool) *CalendarReadStore {
	return &CalendarReadStore{pool: pool}
}

const calendarViewSelect = `SELECT
		c.id, c.reservation_type, c.color, c.max_people,
		c.over_capacity_with_review, c.club_member_rules,
		c.active_member_rules, c.manager_rules,
		c.service_alias, c.service_name, c.created_at, c.updated_at,
		COALESCE(
			(SELECT array_agg(cc.collides_with ORDER BY cc.collides_with)
			 FROM calendar_collisions cc WHERE cc.calendar_id = c.id),
			'{}'
		)
	FROM calendars c`

func (s *CalendarReadStore) FindByID(ctx context.Context, id string, includeRemoved bool) (*queries.CalendarView, error) {
	q := calendarViewSelect + ` WHERE c.id = $1`
	if !includeRemoved {
		q += ` AND c.removed_at IS NULL`
	}
	return s.one(ctx, q, id)
}

func (s *CalendarReadStore) FindByReservationType(ctx context.Context, reservationType string, includeRemoved bool) (*queries.CalendarView, error) {
	q := calendarViewSelect + ` WHERE c.reservation_type = $1`
	if !includeRemoved {
		q += ` AND c.removed_at IS NULL`
	}
	return s.one(ctx, q, reservationType)
}

func (s *CalendarReadStore) FindAll(ctx context.Context, includeRemoved bool) ([]*queries.CalendarView, error) {
	q := calendarViewSelect
	if !includeRemoved {
		q += ` WHERE c.removed_at IS NULL`
	}
	q += ` ORDER BY c.reservation_type`
	return s.list(ctx, q)
}

func (s *CalendarReadStore) FindByServiceAlias(ctx context.Context, alias string) ([]*queries.CalendarView, error) {
	q := calendarViewSelect + ` WHERE c.service_alias = $1 AND c.removed_at IS NULL ORDER BY c.reservation_type`
	return s.list(ctx, q, alias)
}

func (s *CalendarReadStore) one(ctx context.Context, q string, args ...any) (*queries.CalendarView, error) {
	view, err := scanCalendarView(s.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("calendar not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find calendar", err)
	}
	return view, nil
}

func (s *CalendarReadStore) list(ctx context.Context, q string, args ...any) ([]*queries.CalendarView, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list calendars", err)
	}
	defer rows.Close()

	views := []*queries.CalendarView{}
	for rows.Next() {
		view, err := scanCalendarView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list calendars", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list calendars", err)
	}
	return views, nil
}

func scanCalendarView(row pgx.Row) (*queries.CalendarView, error) {
	var (
		view                       queries.CalendarView
		clubRaw, activeRaw, mgrRaw []byte
	)
	err := row.Scan(
		&view.ID, &view.ReservationType, &view.Color, &view.MaxPeople,
		&view.OverCapacityWithReview, &clubRaw, &activeRaw, &mgrRaw,
		&view.ServiceAlias, &view.ServiceName, &view.CreatedAt, &view.UpdatedAt,
		&view.CollisionIDs,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(clubRaw, &view.ClubMemberRules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(activeRaw, &view.ActiveMemberRules); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mgrRaw, &view.ManagerRules); err != nil {
		return nil, err
	}
	return &view, nil
}
