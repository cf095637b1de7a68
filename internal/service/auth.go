package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/minishop/backend/internal/hash"
	"github.com/minishop/backend/internal/logging"
	"github.com/minishop/backend/internal/models"
	"github.com/minishop/backend/internal/repo"
	"github.com/minishop/backend/internal/token"
	"github.com/minishop/backend/internal/transport"
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *token.Service
}

type LoginResult struct {
	Token string             `json:"token"`
	User  transport.UserView `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserView, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: Password must be at least 6 characters", ErrValidation)
	}

	username := strings.TrimSpace(req.Username)
	if len(username) < 2 {
		return nil, fmt.Errorf("%w: username must be at least 2 characters", ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailShape.MatchString(email) {
		return nil, fmt.Errorf("%w: Please enter a valid email address", ErrValidation)
	}

	exists, err := s.Repo.UserExists(ctx, email, username)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "uniqueness check failed", "error", err)
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: User with email/username already exists", ErrConflict)
	}

	// Role escalation through the request body is preserved from the
	// original contract; anything but "admin" collapses to "user".
	role := models.RoleUser
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	view := transport.NewUserView(&user)
	return &view, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Unknown email and wrong password collapse into one generic failure
	// so the endpoint cannot be used to enumerate accounts.
	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "reason", "user lookup failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{
		Token: tok,
		User:  transport.NewUserView(user),
	}, nil
}
