package repository

import (
	"context"
	"encoding/json"
	"errors"

	"reservation-engine/internal/domain/calendar"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalendarRepository struct {
	pool *pgxpool.Pool
}

func NewCalendarRepository(pool *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{pool: pool}
}

const calendarColumns = `id, reservation_type, color, max_people,
	over_capacity_with_review, club_member_rules, active_member_rules,
	manager_rules, service_alias, service_name`

func (r *CalendarRepository) FindByID(ctx context.Context, id string, includeRemoved bool) (*calendar.Calendar, error) {
	q := `SELECT ` + calendarColumns + ` FROM calendars WHERE id = $1`
	if !includeRemoved {
		q += ` AND removed_at IS NULL`
	}
	cal, err := r.scanCalendar(ctx, r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("calendar not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find calendar", err)
	}
	return cal, nil
}

func (r *CalendarRepository) Create(ctx context.Context, cal *calendar.Calendar) error {
	return r.withTx(ctx, "failed to create calendar", func(tx pgx.Tx) error {
		const q = `INSERT INTO calendars
			(id, reservation_type, color, max_people, over_capacity_with_review,
			 club_member_rules, active_member_rules, manager_rules,
			 service_alias, service_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		club, active, manager, err := marshalRules(cal)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, q,
			cal.ID(), cal.ReservationType(), cal.Color(), cal.MaxPeople(),
			cal.OverCapacityWithReview(), club, active, manager,
			cal.ServiceAlias(), cal.ServiceName(),
		); err != nil {
			return err
		}
		return replaceCollisionEdges(ctx, tx, cal.ID(), cal.CollisionIDs())
	})
}

func (r *CalendarRepository) Update(ctx context.Context, cal *calendar.Calendar) error {
	return r.withTx(ctx, "failed to update calendar", func(tx pgx.Tx) error {
		const q = `UPDATE calendars SET
			reservation_type = $2, color = $3, max_people = $4,
			over_capacity_with_review = $5, club_member_rules = $6,
			active_member_rules = $7, manager_rules = $8,
			service_alias = $9, service_name = $10, updated_at = NOW()
			WHERE id = $1 AND removed_at IS NULL`
		club, active, manager, err := marshalRules(cal)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, q,
			cal.ID(), cal.ReservationType(), cal.Color(), cal.MaxPeople(),
			cal.OverCapacityWithReview(), club, active, manager,
			cal.ServiceAlias(), cal.ServiceName(),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return replaceCollisionEdges(ctx, tx, cal.ID(), cal.CollisionIDs())
	})
}

func (r *CalendarRepository) SoftDelete(ctx context.Context, id string) error {
	return r.withTx(ctx, "failed to delete calendar", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE calendars SET removed_at = NOW(), updated_at = NOW()
			 WHERE id = $1 AND removed_at IS NULL`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		// Both directions, so no other calendar keeps an edge toward the
		// removed one.
		_, err = tx.Exec(ctx,
			`DELETE FROM calendar_collisions WHERE calendar_id = $1 OR collides_with = $1`, id)
		return err
	})
}

// Restore lifts the tombstone. Collision edges are not resurrected; the
// calendar comes back with an empty scope until an update re-declares them.
func (r *CalendarRepository) Restore(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE calendars SET removed_at = NULL, updated_at = NOW()
		 WHERE id = $1 AND removed_at IS NOT NULL`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to restore calendar", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("calendar not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *CalendarRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	const q = `SELECT id FROM calendars WHERE id = ANY($1) AND removed_at IS NULL`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to resolve calendar ids", err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to resolve calendar ids", err)
		}
		existing = append(existing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to resolve calendar ids", err)
	}
	return existing, nil
}

func (r *CalendarRepository) withTx(ctx context.Context, msg string, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return infra.WrapRepoErr("calendar not found", err, infra.KindNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return infra.WrapRepoErr("calendar already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr(msg, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr(msg, err)
	}
	return nil
}

// replaceCollisionEdges rewrites the collision set for calendarID. Every
// edge is stored in both directions so either side's scope lookup sees it.
func replaceCollisionEdges(ctx context.Context, tx pgx.Tx, calendarID string, collisionIDs []string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM calendar_collisions WHERE calendar_id = $1 OR collides_with = $1`,
		calendarID); err != nil {
		return err
	}
	for _, other := range collisionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO calendar_collisions (calendar_id, collides_with) VALUES ($1, $2), ($2, $1)
			 ON CONFLICT DO NOTHING`,
			calendarID, other); err != nil {
			return err
		}
	}
	return nil
}

func (r *CalendarRepository) scanCalendar(ctx context.Context, row pgx.Row) (*calendar.Calendar, error) {
	var (
		id, reservationType, color string
		maxPeople                  int
		overCapacityWithReview     bool
		clubRaw, activeRaw, mgrRaw []byte
		serviceAlias, serviceName  string
	)
	err := row.Scan(&id, &reservationType, &color, &maxPeople,
		&overCapacityWithReview, &clubRaw, &activeRaw, &mgrRaw,
		&serviceAlias, &serviceName)
	if err != nil {
		return nil, err
	}

	var club, active, manager calendar.Rules
	if err := json.Unmarshal(clubRaw, &club); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(activeRaw, &active); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mgrRaw, &manager); err != nil {
		return nil, err
	}

	collisionIDs, err := r.collisionIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return calendar.Reconstruct(
		id, reservationType, color, maxPeople, overCapacityWithReview,
		club, active, manager, serviceAlias, serviceName, collisionIDs,
	), nil
}

func (r *CalendarRepository) collisionIDs(ctx context.Context, calendarID string) ([]string, error) {
	const q = `SELECT collides_with FROM calendar_collisions
		WHERE calendar_id = $1 ORDER BY collides_with`
	rows, err := r.pool.Query(ctx, q, calendarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func marshalRules(cal *calendar.Calendar) (club, active, manager []byte, err error) {
	if club, err = json.Marshal(cal.ClubMemberRules()); err != nil {
		return nil, nil, nil, err
	}
	if active, err = json.Marshal(cal.ActiveMemberRules()); err != nil {
		return nil, nil, nil, err
	}
	if manager, err = json.Marshal(cal.ManagerRules()); err != nil {
		return nil, nil, nil, err
	}
	return club, active, manager, nil
}
