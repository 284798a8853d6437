package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// Register creates a new user account and returns an access token for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if err := input.Validate(); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", u.ID.String()))
	return u, token, nil
}
