// Package user provides registration, login and user search.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

const searchLimit = 10

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SearchByEmail(ctx context.Context, prefix string, exclude uuid.UUID, limit int) ([]domain.User, error)
}

type passwordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
}

type tokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
}

// Service implements user account operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	hasher passwordHasher
	tokens tokenManager
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	hasher passwordHasher,
	tokens tokenManager,
) *Service {
	return &Service{
		log:    logger.With("service", "user"),
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}
