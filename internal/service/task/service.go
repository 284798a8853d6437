// Package task provides household task management.
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

const DefaultLimit = 50

type taskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	SetDone(ctx context.Context, id uuid.UUID, done bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sharer interface {
	BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsers(ctx context.Context, input sharing.ShareInput) error
}

// Service provides task operations.
type Service struct {
	tasks  taskRepo
	sharer sharer
	log    *slog.Logger
}

// NewService creates a new Task service.
func NewService(
	log *slog.Logger,
	tasks taskRepo,
	sharer sharer,
) *Service {
	return &Service{
		tasks:  tasks,
		sharer: sharer,
		log:    log.With("service", "task"),
	}
}

func newTargets(existing domain.Shared, targets []domain.ShareTarget) []domain.ShareTarget {
	var fresh []domain.ShareTarget
	for _, t := range targets {
		if !existing.SharedWith(t.UID) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func nowUTC() time.Time { return time.Now().UTC() }
