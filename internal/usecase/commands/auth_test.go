//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/internal/pkg/password"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserReadStore struct {
	view *queries.AuthorizedUserView
	hash string
	err  error
}

func (f *fakeUserReadStore) FindByEmail(_ context.Context, _ string) (*queries.AuthorizedUserView, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.view, f.hash, nil
}

func (f *fakeUserReadStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.AuthorizedUserView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func loginCredentials(t *testing.T, pass string) user.Credentials {
	t.Helper()
	email, err := user.NewEmail("jnovak@example.com")
	require.NoError(t, err)
	pw, err := user.NewPassword(pass)
	require.NoError(t, err)
	return user.NewCredentials(email, pw)
}

func TestLogin(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	hash, err := password.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	view := &queries.AuthorizedUserView{
		ID:       uuid.New(),
		Username: "jnovak",
		Email:    "jnovak@example.com",
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		auth := commands.NewAuthCommands(&fakeUserReadStore{view: view, hash: hash}, jwtService)

		result, err := auth.Login(context.Background(), loginCredentials(t, "correct-horse-battery"))

		require.NoError(t, err)
		assert.Equal(t, view, result.User)

		claims, err := jwtService.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, view.ID, claims.UserID)
		assert.Equal(t, "jnovak", claims.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		auth := commands.NewAuthCommands(&fakeUserReadStore{view: view, hash: hash}, jwtService)

		_, err := auth.Login(context.Background(), loginCredentials(t, "not-the-password"))
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email reads the same as a wrong password", func(t *testing.T) {
		auth := commands.NewAuthCommands(&fakeUserReadStore{err: repoNotFound("user")}, jwtService)

		_, err := auth.Login(context.Background(), loginCredentials(t, "correct-horse-battery"))
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})
}

func TestGetCurrentUser(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)

	t.Run("found", func(t *testing.T) {
		view := &queries.AuthorizedUserView{ID: uuid.New(), Username: "jnovak"}
		auth := commands.NewAuthCommands(&fakeUserReadStore{view: view}, jwtService)

		got, err := auth.GetCurrentUser(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("missing user", func(t *testing.T) {
		auth := commands.NewAuthCommands(&fakeUserReadStore{err: repoNotFound("user")}, jwtService)

		_, err := auth.GetCurrentUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrUserNotFound)
	})
}
