package repository

import (
	"context"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	const q = `SELECT id, username, full_name, email, active_member, section_head, roles
		FROM users WHERE id = $1`

	var (
		rowID                     uuid.UUID
		username, fullName, email string
		activeMember, sectionHead bool
		roles                     []string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&rowID, &username, &fullName, &email, &activeMember, &sectionHead, &roles)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	addr, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user email is malformed", err)
	}
	u, err := user.NewUser(rowID, username, fullName, addr, activeMember, sectionHead, roles)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user record is malformed", err)
	}
	return u, nil
}
