package readstore

import (
	"context"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

const userViewSelect = `SELECT id, username, full_name, email, active_member, section_head, roles
	FROM users`

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const q = `SELECT id, username, full_name, email, active_member, section_head, roles, password_hash
		FROM users WHERE email = $1`
	var (
		view queries.AuthorizedUserView
		hash string
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&view.ID, &view.Username, &view.FullName, &view.Email,
		&view.ActiveMember, &view.SectionHead, &view.Roles, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &view, hash, nil
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	view, err := scanUserView(s.pool.QueryRow(ctx, userViewSelect+` WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return view, nil
}

func scanUserView(row pgx.Row) (*queries.AuthorizedUserView, error) {
	var view queries.AuthorizedUserView
	err := row.Scan(&view.ID, &view.Username, &view.FullName, &view.Email,
		&view.ActiveMember, &view.SectionHead, &view.Roles)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
