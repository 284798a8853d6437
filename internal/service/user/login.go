package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/homelyapp/backend/internal/domain"
)

// Login verifies credentials and returns the user with a fresh access token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if err := input.Validate(); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := s.hasher.CheckPassword(u.PasswordHash, input.Password); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID.String()))
	return u, token, nil
}
