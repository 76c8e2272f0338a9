package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
	"github.com/turnoshq/queue-service/internal/ports"
)

// Login validates staff credentials and issues a bearer token. NotFound and
// bad password collapse into one error to avoid leaking which part failed.
func (s *Service) Login(ctx context.Context, input LoginInput) (LoginOutput, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || input.Password == "" {
		return LoginOutput{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.repos.Users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return LoginOutput{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return LoginOutput{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		appLogger().WarnContext(ctx, "login rejected",
			"operation", "login",
			"outcome", "failure",
			"username", username,
		)
		return LoginOutput{}, domain.ErrInvalidCredentials
	}

	now := s.nowFn()
	claims := ports.AuthClaims{
		UserID:    user.UserID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	token, err := s.signer.Sign(claims)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginOutput{
		Token:     token,
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User:      user,
	}, nil
}

func (s *Service) UserByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return s.repos.Users.GetByID(ctx, userID)
}

// ListUsers is the admin directory read.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repos.Users.List(ctx)
}
