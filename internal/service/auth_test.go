package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minishop/backend/internal/hash"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/token"
	"github.com/minishop/backend/internal/transport"
)

func newAuthService(t *testing.T) (*AuthService, *token.Service) {
	t.Helper()
	tokens := token.NewService([]byte("test-jwt-secret"))
	return &AuthService{Repo: newTestRepo(t), Tokens: tokens}, tokens
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	view, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "password",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", view.Username)
	require.Equal(t, "alice@example.com", view.Email)
	require.Equal(t, models.RoleUser, view.Role)
	require.NotEmpty(t, view.ID)

	var stored models.User
	require.NoError(t, svc.Repo.DB.Where("username = ?", "alice").First(&stored).Error)
	require.NotEqual(t, "password", stored.PasswordHash)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "password"))
}

func TestRegisterExplicitAdminRole(t *testing.T) {
	svc, _ := newAuthService(t)

	view, err := svc.Register(context.Background(), transport.RegisterRequest{
		Username: "boss",
		Email:    "boss@example.com",
		Password: "password",
		Role:     "admin",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, view.Role)

	// anything else collapses to "user"
	view2, err := svc.Register(context.Background(), transport.RegisterRequest{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "password",
		Role:     "superuser",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, view2.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	cases := []transport.RegisterRequest{
		{Email: "a@b.c", Password: "password"},
		{Username: "alice", Password: "password"},
		{Username: "alice", Email: "a@b.c"},
		{Username: "alice", Email: "a@b.c", Password: "short"},
		{Username: "alice", Email: "not-an-email", Password: "password"},
		{Username: "x", Email: "a@b.c", Password: "password"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		require.ErrorIs(t, err, ErrValidation, "req: %+v", req)
	}
}

func TestRegisterConflict(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password",
	})
	require.NoError(t, err)

	// same email, different case
	_, err = svc.Register(ctx, transport.RegisterRequest{
		Username: "alice2", Email: "ALICE@example.com", Password: "password",
	})
	require.ErrorIs(t, err, ErrConflict)

	// same username, different email
	_, err = svc.Register(ctx, transport.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	view, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, transport.LoginRequest{
		Email: "  ALICE@example.com ", Password: "password",
	})
	require.NoError(t, err)
	require.Equal(t, view.ID, result.User.ID)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID.String(), claims.Subject)
	require.Equal(t, models.RoleUser, claims.Role)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, transport.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password",
	})
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(ctx, transport.LoginRequest{
		Email: "alice@example.com", Password: "not-the-password",
	})
	_, errUnknownUser := svc.Login(ctx, transport.LoginRequest{
		Email: "nobody@example.com", Password: "password",
	})

	require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	require.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}
